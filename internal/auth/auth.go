// Package auth implements single-user vault unlock: a bcrypt-hashed master
// password stored in settings, exchanged for a short-lived session token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/onevault/onevault/internal/storage"
)

var (
	ErrInvalidPassword = errors.New("invalid master password")
	ErrWeakPassword    = errors.New("master password must be at least 8 characters")
	ErrPasswordNotSet  = errors.New("master password not set")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrMissingToken    = errors.New("authorization token required")
)

const masterPasswordKey = "master_password_hash"

// Claims are the session token claims.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager verifies the master password and issues session tokens.
type Manager struct {
	store         storage.Store
	secretKey     []byte
	tokenDuration time.Duration
}

// NewManager creates a Manager. secretKey signs session tokens and should be
// a strong random string; tokenDuration is how long an unlock lasts.
func NewManager(store storage.Store, secretKey string, tokenDuration time.Duration) *Manager {
	return &Manager{store: store, secretKey: []byte(secretKey), tokenDuration: tokenDuration}
}

// PasswordSet reports whether a master password has been configured.
func (m *Manager) PasswordSet(ctx context.Context) (bool, error) {
	_, err := m.store.GetSetting(ctx, masterPasswordKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetMasterPassword sets or rotates the master password. Rotation requires
// the current password.
func (m *Manager) SetMasterPassword(ctx context.Context, current, next string) error {
	if len(next) < 8 {
		return ErrWeakPassword
	}

	hash, err := m.store.GetSetting(ctx, masterPasswordKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// First-time setup, nothing to verify.
	case err != nil:
		return err
	default:
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)) != nil {
			return ErrInvalidPassword
		}
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return m.store.PutSetting(ctx, masterPasswordKey, string(newHash))
}

// Unlock verifies the master password and returns a signed session token.
func (m *Manager) Unlock(ctx context.Context, password string) (string, error) {
	hash, err := m.store.GetSetting(ctx, masterPasswordKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrPasswordNotSet
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalidPassword
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "vault",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a session token.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
