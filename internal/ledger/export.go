package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"piggy/internal/core"
)

var ErrNothingToExport = errors.New("nothing to export")

// Export is a downloadable copy of the ledger.
type Export struct {
	Filename string
	Body     []byte
	Count    int
}

// ExportFilename names the export file after the calendar date of now.
func ExportFilename(now time.Time) string {
	return "ledger-" + now.Format(core.DateLayout) + ".json"
}

// ExportSnapshot renders the full collection as indented JSON in the same
// shape the persister stores. An empty ledger yields ErrNothingToExport.
func (s *Store) ExportSnapshot(now time.Time) (Export, error) {
	txs := s.List()
	if len(txs) == 0 {
		return Export{}, ErrNothingToExport
	}
	body, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return Export{}, fmt.Errorf("encode export: %w", err)
	}
	return Export{
		Filename: ExportFilename(now),
		Body:     body,
		Count:    len(txs),
	}, nil
}
