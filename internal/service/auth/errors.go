package auth

import "errors"

// Sentinel errors returned by token validation and login. Handlers translate
// these into HTTP status codes; the raw messages never reach clients.
var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned for access tokens past their expiry.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned when the nbf claim is in the future
	// beyond the allowed clock skew.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrInvalidRefreshToken is the refresh-token counterpart of ErrInvalidToken.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken is returned for refresh tokens past their expiry.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType is returned when a token is presented for the other
	// purpose, such as a refresh token on an authenticated endpoint.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
