// Package kvstore provides the string key-value persistence used to hold the
// template collection and admin settings.
package kvstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Store is a durable single-slot string store.
type Store interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// ChangeFunc is called with the key written by another process. An empty
// key means changes may have been missed, for example across a reconnect.
type ChangeFunc func(key string)

// changeMessage is published after every successful write.
type changeMessage struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// Watcher is implemented by backends that can signal writes made by other
// processes sharing the same storage.
type Watcher interface {
	// Watch blocks until ctx is done or the subscription fails.
	Watch(ctx context.Context, fn ChangeFunc) error
}
