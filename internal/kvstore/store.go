package kvstore

import (
	"context"
	"errors"
)

// Store is a string key-value store that never reports errors.
type Store interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
	Clear()
}

// Backend is a durable key-value implementation that may fail.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kvstore: backend closed")
