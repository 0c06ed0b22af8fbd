// Package mocks holds shared test doubles for the auth-facing interfaces
// (store.UserStore, auth.JWTService, auth.PasswordVerifier). The API handler
// and middleware tests both need these, so they live here rather than being
// redefined per test package.
package mocks
