package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/onevault/onevault/internal/storage/sqlite"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewManager(store, "test-secret", time.Hour)
}

func TestUnlockFlow(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	set, err := m.PasswordSet(ctx)
	if err != nil {
		t.Fatalf("PasswordSet failed: %v", err)
	}
	if set {
		t.Error("expected no password on a fresh vault")
	}

	if _, err := m.Unlock(ctx, "whatever"); !errors.Is(err, ErrPasswordNotSet) {
		t.Errorf("Unlock before setup = %v, want ErrPasswordNotSet", err)
	}

	if err := m.SetMasterPassword(ctx, "", "correct horse"); err != nil {
		t.Fatalf("SetMasterPassword failed: %v", err)
	}

	if _, err := m.Unlock(ctx, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Unlock with wrong password = %v, want ErrInvalidPassword", err)
	}

	token, err := m.Unlock(ctx, "correct horse")
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Subject != "vault" {
		t.Errorf("subject = %q, want vault", claims.Subject)
	}
}

func TestSetMasterPassword(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	if err := m.SetMasterPassword(ctx, "", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password = %v, want ErrWeakPassword", err)
	}

	if err := m.SetMasterPassword(ctx, "", "first password"); err != nil {
		t.Fatalf("initial SetMasterPassword failed: %v", err)
	}

	// Rotation needs the current password.
	if err := m.SetMasterPassword(ctx, "wrong", "second password"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("rotation with wrong current = %v, want ErrInvalidPassword", err)
	}
	if err := m.SetMasterPassword(ctx, "first password", "second password"); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}
	if _, err := m.Unlock(ctx, "second password"); err != nil {
		t.Errorf("Unlock after rotation failed: %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newManager(t)
	if _, err := m.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate garbage = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsForeignToken(t *testing.T) {
	a := newManager(t)
	ctx := context.Background()
	if err := a.SetMasterPassword(ctx, "", "a password!"); err != nil {
		t.Fatalf("SetMasterPassword failed: %v", err)
	}
	token, err := a.Unlock(ctx, "a password!")
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	b := NewManager(nil, "different-secret", time.Hour)
	if _, err := b.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token = %v, want ErrInvalidToken", err)
	}
}
