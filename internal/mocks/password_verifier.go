package mocks

import "errors"

// MockPasswordVerifier is an auth.PasswordVerifier whose outcome is fixed by
// ShouldSucceed, skipping real bcrypt work in handler tests.
type MockPasswordVerifier struct {
	ShouldSucceed bool
}

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}
