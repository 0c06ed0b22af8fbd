// Package postgres implements the store interfaces against PostgreSQL,
// owning SQL text, row scanning, and the translation of driver errors into
// store sentinel errors.
package postgres
