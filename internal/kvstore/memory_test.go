package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", "v1"))
	require.NoError(t, m.Set(ctx, "k", "v2"))

	v, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)

	m.Delete("k")
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Quota(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(10)

	require.NoError(t, m.Set(ctx, "a", "12345"))
	require.NoError(t, m.Set(ctx, "b", "12345"))

	err := m.Set(ctx, "c", "1")
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// replacing a value only counts the new size
	require.NoError(t, m.Set(ctx, "a", "1234"))

	_, err = m.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_FailWith(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)
	boom := errors.New("boom")

	m.FailWith(func(key string) error {
		if key == "bad" {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, m.Set(ctx, "bad", "x"), boom)
	assert.NoError(t, m.Set(ctx, "good", "x"))

	m.FailWith(nil)
	assert.NoError(t, m.Set(ctx, "bad", "x"))
}
