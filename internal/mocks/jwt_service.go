package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/rgareau/taskline/internal/service/auth"
)

// MockJWTService is a canned auth.JWTService: generation returns the
// configured token strings and validation returns the configured claims or
// error. Tests set only the fields the code under test touches.
type MockJWTService struct {
	Token        string
	RefreshToken string
	Err          error

	Claims      *auth.Claims
	ValidateErr error
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return m.Token, m.Err
}

func (m *MockJWTService) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	return m.Claims, m.ValidateErr
}

func (m *MockJWTService) GenerateRefreshToken(
	ctx context.Context,
	userID uuid.UUID,
) (string, error) {
	return m.RefreshToken, m.Err
}

func (m *MockJWTService) ValidateRefreshToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	return m.Claims, m.ValidateErr
}
