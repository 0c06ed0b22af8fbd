// Package store declares the persistence interfaces and sentinel errors the
// service layer depends on, keeping business logic free of any particular
// database.
package store
