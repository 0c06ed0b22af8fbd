// Package logger configures structured JSON logging on top of log/slog and
// carries request-scoped loggers through contexts.
package logger
