// Package ledger holds the in-memory transaction collection for a session and
// keeps it mirrored to a persister after every mutation.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"piggy/internal/category"
	"piggy/internal/core"
	"piggy/internal/stats"
)

var (
	// ErrNoData is returned by a Persister that has never been written.
	ErrNoData = errors.New("no persisted ledger")
	// ErrMalformed is returned by a Persister whose content cannot be decoded.
	ErrMalformed = errors.New("malformed persisted ledger")
)

// Persister reads and replaces the whole collection at once.
type Persister interface {
	Load(ctx context.Context) ([]core.Transaction, error)
	Save(ctx context.Context, txs []core.Transaction) error
}

// Commit reports whether a mutation reached the persister. The in-memory
// change is kept either way.
type Commit struct {
	Persisted bool
	Err       error
}

// Store is the single source of truth for the session. All methods are safe
// for concurrent use; each mutation and its write-through happen under one
// lock.
type Store struct {
	mu        sync.Mutex
	txs       []core.Transaction
	revision  uint64
	persister Persister
	registry  *category.Registry
	notifier  Notifier
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

type Option func(*Store)

// WithNotifier sets where change events are published.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock replaces time.Now, used for creation timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func NewStore(p Persister, reg *category.Registry, opts ...Option) *Store {
	s := &Store{
		persister: p,
		registry:  reg,
		now:       time.Now,
		newID:     func() string { return ulid.Make().String() },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = category.NewRegistry()
	}
	return s
}

// Load replaces the collection with what the persister holds. Missing or
// unreadable data leaves the ledger empty and is logged at warn level; it is
// never an error for the caller. It returns the number of transactions
// loaded.
func (s *Store) Load(ctx context.Context) int {
	txs, err := s.persister.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.revision++
	switch {
	case errors.Is(err, ErrNoData):
		s.logger.WarnContext(ctx, "No saved ledger, starting empty")
		s.txs = nil
		return 0
	case err != nil:
		s.logger.WarnContext(ctx, "Failed to load ledger, starting empty", "error", err)
		s.txs = nil
		return 0
	}

	s.txs = txs
	s.logger.InfoContext(ctx, "Ledger loaded", "count", len(txs))
	return len(txs)
}

// Add validates the draft and appends the resulting transaction. A
// validation failure is returned as *core.ValidationError and leaves the
// collection untouched.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Transaction, Commit, error) {
	s.mu.Lock()
	tx, err := d.Build(s.newID(), s.now())
	if err != nil {
		s.mu.Unlock()
		return core.Transaction{}, Commit{}, err
	}
	s.txs = append(s.txs, tx)
	s.revision++
	commit := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"category", tx.Category,
		"persisted", commit.Persisted)
	s.notify(ctx, Event{Kind: EventAdded, ID: tx.ID, Persisted: commit.Persisted, At: s.now()})
	return tx, commit, nil
}

// Remove drops every transaction with the given id. An unknown id is a no-op
// and nothing is written.
func (s *Store) Remove(ctx context.Context, id string) (bool, Commit) {
	s.mu.Lock()
	before := len(s.txs)
	s.txs = slices.DeleteFunc(s.txs, func(t core.Transaction) bool { return t.ID == id })
	if len(s.txs) == before {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Remove of unknown transaction ignored", "id", id)
		return false, Commit{Persisted: true}
	}
	s.revision++
	commit := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction removed", "id", id, "persisted", commit.Persisted)
	s.notify(ctx, Event{Kind: EventRemoved, ID: id, Persisted: commit.Persisted, At: s.now()})
	return true, commit
}

// Clear empties the ledger and writes the empty collection through.
func (s *Store) Clear(ctx context.Context) Commit {
	s.mu.Lock()
	dropped := len(s.txs)
	s.txs = nil
	s.revision++
	commit := s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Ledger cleared", "dropped", dropped, "persisted", commit.Persisted)
	s.notify(ctx, Event{Kind: EventCleared, Persisted: commit.Persisted, At: s.now()})
	return commit
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

// Revision increases on every load and mutation. Derived views can be cached
// against it.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Today is the current calendar date according to the store's clock.
func (s *Store) Today() core.Date {
	return core.DateOf(s.now())
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Balance() stats.Balance {
	return stats.ComputeBalance(s.List())
}

func (s *Store) Filtered(f stats.Filter) []core.Transaction {
	return stats.FilterAndSort(s.List(), f)
}

// MonthlyExpenseByCategory breaks down the expenses of ref's month. ok is
// false when that month has no expenses.
func (s *Store) MonthlyExpenseByCategory(ref core.Date) (core.MonthOverview, bool) {
	return stats.MonthlyExpenseByCategory(s.List(), ref)
}

func (s *Store) ResolveCategory(t core.TransactionType, id string) category.Category {
	return s.registry.Resolve(t, id)
}

func (s *Store) Categories(t core.TransactionType) []category.Category {
	return s.registry.List(t)
}

func (s *Store) snapshotLocked() []core.Transaction {
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

func (s *Store) persistLocked(ctx context.Context) Commit {
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger", "count", len(s.txs), "error", err)
		return Commit{Persisted: false, Err: err}
	}
	return Commit{Persisted: true}
}
