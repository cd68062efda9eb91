package repository

import (
	"context"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/kvstore"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionRepository_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key is an empty collection", func(t *testing.T) {
		repo := NewCollectionRepository(kvstore.NewMemoryStore(0), "")
		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("garbage is reported as corrupt", func(t *testing.T) {
		kv := kvstore.NewMemoryStore(0)
		require.NoError(t, kv.Set(ctx, DefaultKey, "{not json"))

		_, err := NewCollectionRepository(kv, "").Load(ctx)
		assert.ErrorIs(t, err, domain.ErrCorruptData)
	})

	t.Run("a JSON object is reported as corrupt", func(t *testing.T) {
		kv := kvstore.NewMemoryStore(0)
		require.NoError(t, kv.Set(ctx, DefaultKey, `{"id":"x"}`))

		_, err := NewCollectionRepository(kv, "").Load(ctx)
		assert.ErrorIs(t, err, domain.ErrCorruptData)
	})

	t.Run("null is an empty collection", func(t *testing.T) {
		kv := kvstore.NewMemoryStore(0)
		require.NoError(t, kv.Set(ctx, DefaultKey, `null`))

		got, err := NewCollectionRepository(kv, "").Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestCollectionRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore(0)
	repo := NewCollectionRepository(kv, "custom")

	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	in := []domain.Template{{
		ID:         "t1",
		Name:       "Wedding Collage",
		Category:   "collage",
		GridConfig: domain.DefaultGridConfig,
		CreatedAt:  created,
		UpdatedAt:  created,
	}}

	require.NoError(t, repo.Save(ctx, in))

	raw, err := kv.Get(ctx, "custom")
	require.NoError(t, err)
	assert.Contains(t, raw, `"imageUrl":""`)
	assert.Contains(t, raw, `"createdAt":"2024-01-01T10:00:00Z"`)

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCollectionRepository_SaveFailure(t *testing.T) {
	kv := kvstore.NewMemoryStore(4)
	repo := NewCollectionRepository(kv, "")

	err := repo.Save(context.Background(), []domain.Template{{ID: "x", Name: "too big"}})
	assert.ErrorIs(t, err, kvstore.ErrQuotaExceeded)
}
