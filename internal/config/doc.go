// Package config loads and validates the server's configuration from
// environment variables and optional config files, giving the rest of the
// application typed access to settings.
package config
