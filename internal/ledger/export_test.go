package ledger

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"piggy/internal/core"
)

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC))
	if got != "ledger-2024-03-07.json" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestExportSnapshotEmpty(t *testing.T) {
	s := newTestStore(&fakePersister{})
	if _, err := s.ExportSnapshot(fixedNow); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestExportSnapshot(t *testing.T) {
	s := newTestStore(&fakePersister{})
	mustAdd(t, s, core.Draft{Type: core.Expense, Amount: "35.50", Category: "food", Note: "lunch", Date: "2024-03-01"})
	mustAdd(t, s, core.Draft{Type: core.Income, Amount: "5000", Category: "salary", Date: "2024-03-01"})

	exp, err := s.ExportSnapshot(fixedNow)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exp.Filename != "ledger-2024-03-15.json" || exp.Count != 2 {
		t.Fatalf("unexpected export meta %q count=%d", exp.Filename, exp.Count)
	}
	body := string(exp.Body)
	if !strings.HasPrefix(body, "[\n  {\n    \"id\": \"tx-001\",") {
		t.Fatalf("export is not 2-space indented:\n%s", body)
	}

	var rows []map[string]any
	if err := json.Unmarshal(exp.Body, &rows); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	first := rows[0]
	if first["type"] != "expense" || first["amount"] != 35.5 || first["date"] != "2024-03-01" || first["note"] != "lunch" {
		t.Fatalf("unexpected first row %v", first)
	}
	if first["createdAt"] != "2024-03-15T10:30:00Z" {
		t.Fatalf("unexpected createdAt %v", first["createdAt"])
	}
}
