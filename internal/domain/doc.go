// Package domain holds taskline's core entities (users, todos, subtasks,
// tags) and their validation rules. It has no knowledge of HTTP or the
// database.
package domain
