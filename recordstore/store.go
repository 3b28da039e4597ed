// Package recordstore provides the durable key-value mapping the registry
// persists into. Values are opaque blobs; the registry writes one JSON
// document per key and always overwrites it whole.
package recordstore

import (
	"context"
	"fmt"
	"path/filepath"
)

// Store maps string keys to byte blobs.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases the underlying resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// File names used inside the data directory.
const (
	BoltFileName   = "secureex.db"
	SQLiteFileName = "secureex.sqlite"
)

// Open opens the named backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendBolt:
		return OpenBoltStore(filepath.Join(dataDir, BoltFileName))
	case BackendSQLite:
		return OpenSQLiteStore(filepath.Join(dataDir, SQLiteFileName))
	case BackendMemory:
		return NewMemStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
