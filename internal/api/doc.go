// Package api exposes taskline's HTTP surface: handlers for auth, todo, tag,
// and user endpoints, request decoding and validation, and the mapping from
// service errors to HTTP status codes. Handlers stay thin and delegate all
// business decisions to the service layer.
package api
