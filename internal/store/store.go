// Package store persists small key-value records such as the daily card
// selection and the welcome flag.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// KV is the key-value contract the rest of the app persists through
type KV interface {
	// Get returns the value for key; ok is false when the key is absent
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Open opens a store of the named backend rooted at dir
func Open(backend, dir string) (KV, error) {
	if backend != BackendMemory {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("error creating data directory: %w", err)
		}
	}

	switch backend {
	case BackendTOML, "":
		return NewFileStore(filepath.Join(dir, "state.toml")), nil
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(dir, "state.db"))
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
