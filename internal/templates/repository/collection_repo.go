package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/kvstore"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/domain"
)

const DefaultKey = "photoTemplates" // Single key holding the whole collection as a JSON array

// CollectionRepository stores the template collection as one JSON blob.
type CollectionRepository struct {
	kv  kvstore.Store
	key string
}

// NewCollectionRepository creates a repository over kv. An empty key uses DefaultKey.
func NewCollectionRepository(kv kvstore.Store, key string) *CollectionRepository {
	if key == "" {
		key = DefaultKey
	}
	return &CollectionRepository{kv: kv, key: key}
}

// Key returns the storage key of the collection.
func (r *CollectionRepository) Key() string {
	return r.key
}

// Load returns the stored collection. A missing key yields an empty
// collection; an undecodable value yields domain.ErrCorruptData.
func (r *CollectionRepository) Load(ctx context.Context) ([]domain.Template, error) {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []domain.Template{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	var templates []domain.Template
	if err := json.Unmarshal([]byte(data), &templates); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptData, err)
	}
	if templates == nil {
		templates = []domain.Template{}
	}

	return templates, nil
}

// Save replaces the stored collection.
func (r *CollectionRepository) Save(ctx context.Context, templates []domain.Template) error {
	if templates == nil {
		templates = []domain.Template{}
	}

	data, err := json.Marshal(templates)
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}

	if err := r.kv.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to save templates: %w", err)
	}

	return nil
}
