package backend

import (
	"context"

	"piggy/internal/ledger"
	"piggy/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// HealthFunc reports whether the storage backend can serve requests.
type HealthFunc func(ctx context.Context) error

// BackendResult holds everything the ledger store needs from the outside
// world plus the function releasing it.
type BackendResult struct {
	KV        storage.KV
	Persister ledger.Persister
	Notifier  ledger.Notifier // nil when the change feed is disabled or unreachable
	Health    HealthFunc
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Key the ledger blob is stored under
	StorageKey string

	// SQLite specific
	SQLiteDBPath string

	// Memory specific, optional seed directory
	DataDirectory string

	// Change feed, optional for both backends
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
