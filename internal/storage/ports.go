package storage

import "context"

// Ports for persistence backends.
type (
	// KV is a durable key-value surface. The ledger keeps its whole
	// collection under a single key.
	KV interface {
		// Get returns the value stored under key. found is false when the
		// key has never been written.
		Get(ctx context.Context, key string) (value []byte, found bool, err error)
		// Set replaces the value stored under key.
		Set(ctx context.Context, key string, value []byte) error
	}

	// Closer is implemented by backends holding resources.
	Closer interface {
		Close() error
	}
)
