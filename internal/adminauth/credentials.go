// Package adminauth guards the admin API with a single shared password.
package adminauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/kvstore"
)

const (
	PasswordKey       = "adminPassword"
	MinPasswordLength = 6
)

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
)

// Credentials checks and changes the shared admin password. The password
// lives in the key-value store; until one is stored the configured default
// applies.
type Credentials struct {
	kv              kvstore.Store
	defaultPassword string
}

func NewCredentials(kv kvstore.Store, defaultPassword string) *Credentials {
	return &Credentials{kv: kv, defaultPassword: defaultPassword}
}

func (c *Credentials) current(ctx context.Context) (string, error) {
	pw, err := c.kv.Get(ctx, PasswordKey)
	if errors.Is(err, kvstore.ErrNotFound) || (err == nil && pw == "") {
		return c.defaultPassword, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read admin password: %w", err)
	}
	return pw, nil
}

// Verify reports whether password matches the admin password.
func (c *Credentials) Verify(ctx context.Context, password string) (bool, error) {
	want, err := c.current(ctx)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(want)) == 1, nil
}

// Change stores a new admin password after trimming it.
func (c *Credentials) Change(ctx context.Context, password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if err := c.kv.Set(ctx, PasswordKey, password); err != nil {
		return fmt.Errorf("failed to save admin password: %w", err)
	}
	return nil
}
