// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and stores
// (defined in internal/store) to fulfill application features.
//
// Each service focuses on one domain area: users, todos (including
// recurrence expansion at creation and the completion policy for recurring
// todos), and tags. Services receive their dependencies through constructor
// injection, apply transactional boundaries via store.RunInTransaction when
// an operation touches multiple records, and translate store errors into
// meaningful context for the API layer.
//
// The service layer depends on domain entities and store interfaces, never
// on specific infrastructure implementations.
package service
