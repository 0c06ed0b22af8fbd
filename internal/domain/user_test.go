package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("alice@example.com", "a-long-enough-password")
	if err != nil {
		t.Fatalf("NewUser returned error: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("expected a generated user ID")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "alice@example.com")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestUserValidate(t *testing.T) {
	longPassword := make([]byte, 73)
	for i := range longPassword {
		longPassword[i] = 'x'
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "alice@example.com", "a-long-enough-password", nil},
		{"empty email", "", "a-long-enough-password", ErrEmptyEmail},
		{"missing at sign", "alice.example.com", "a-long-enough-password", ErrInvalidEmail},
		{"missing domain dot", "alice@example", "a-long-enough-password", ErrInvalidEmail},
		{"trailing at sign", "alice@", "a-long-enough-password", ErrInvalidEmail},
		{"short password", "alice@example.com", "tooshort", ErrPasswordTooShort},
		{"long password", "alice@example.com", string(longPassword), ErrPasswordTooLong},
		{"empty password", "alice@example.com", "", ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewUser(%q, ...) error = %v, want %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestUserValidateHashedOnly(t *testing.T) {
	// Users loaded from the database carry only the hash.
	user := &User{
		ID:             uuid.New(),
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$somethinghashed",
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Validate returned error for hashed-only user: %v", err)
	}
}
