package auth

import (
	"context"

	"github.com/google/uuid"
)

// MockJWTService is a function-field JWTService for tests in other
// packages. Unset functions return ErrInvalidToken or an empty token.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, token string) (*Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, token string) (*Claims, error)
}

var _ JWTService = (*MockJWTService)(nil)

// GenerateToken implements JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "access-" + userID.String(), nil
}

// ValidateToken implements JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return nil, ErrInvalidToken
}

// GenerateRefreshToken implements JWTService.
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return "refresh-" + userID.String(), nil
}

// ValidateRefreshToken implements JWTService.
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, token string) (*Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, token)
	}
	return nil, ErrInvalidRefreshToken
}

// MockPasswordVerifier is a function-field PasswordVerifier.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

// Compare implements PasswordVerifier.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return nil
}
