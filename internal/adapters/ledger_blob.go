package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"piggy/internal/core"
	"piggy/internal/ledger"
	"piggy/internal/storage"
)

// LedgerBlob adapts a storage.KV into a ledger.Persister: the whole
// collection is one JSON array under one key.
type LedgerBlob struct {
	kv  storage.KV
	key string
}

func NewLedgerBlob(kv storage.KV, key string) *LedgerBlob {
	return &LedgerBlob{kv: kv, key: key}
}

// Key returns the storage key the ledger lives under.
func (a *LedgerBlob) Key() string {
	return a.key
}

// Load reads the persisted collection. It returns ledger.ErrNoData when the
// key was never written and ledger.ErrMalformed when the blob cannot be
// decoded as a JSON array. Individual records that fail to decode, or that
// decode but break the transaction invariants, are dropped and logged.
func (a *LedgerBlob) Load(ctx context.Context) ([]core.Transaction, error) {
	raw, found, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("read ledger blob: %w", err)
	}
	if !found || len(raw) == 0 {
		return nil, ledger.ErrNoData
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrMalformed, err)
	}

	valid := make([]core.Transaction, 0, len(rows))
	for i, row := range rows {
		var t core.Transaction
		if err := json.Unmarshal(row, &t); err != nil {
			slog.WarnContext(ctx, "Dropping undecodable persisted transaction",
				"index", i,
				"error", err)
			continue
		}
		if err := t.Validate(); err != nil {
			slog.WarnContext(ctx, "Dropping invalid persisted transaction",
				"index", i,
				"id", t.ID,
				"error", err)
			continue
		}
		valid = append(valid, t)
	}
	return valid, nil
}

// Save replaces the persisted collection with txs.
func (a *LedgerBlob) Save(ctx context.Context, txs []core.Transaction) error {
	if txs == nil {
		txs = []core.Transaction{}
	}
	raw, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode ledger blob: %w", err)
	}
	if err := a.kv.Set(ctx, a.key, raw); err != nil {
		return fmt.Errorf("write ledger blob: %w", err)
	}
	return nil
}
