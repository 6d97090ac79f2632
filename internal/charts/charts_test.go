package charts

import (
	"bytes"
	"errors"
	"testing"

	"piggy/internal/core"
)

func money(t *testing.T, s string) core.Money {
	t.Helper()
	m, err := core.ParseMoney(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return m
}

func TestMonthlyBreakdownEmpty(t *testing.T) {
	g := NewGenerator("¥")
	if _, err := g.MonthlyBreakdown(core.MonthOverview{Year: 2024, Month: 3}, func(id string) string { return id }); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestMonthlyBreakdownPNG(t *testing.T) {
	g := NewGenerator("¥")
	tests := []struct {
		name string
		ov   core.MonthOverview
	}{
		{
			name: "single category",
			ov: core.MonthOverview{Year: 2024, Month: 3, Total: money(t, "35.5"), ByCategory: []core.CategoryAmount{
				{Category: "food", Amount: money(t, "35.5"), Percent: 100},
			}},
		},
		{
			name: "tie",
			ov: core.MonthOverview{Year: 2024, Month: 3, Total: money(t, "40"), ByCategory: []core.CategoryAmount{
				{Category: "food", Amount: money(t, "20"), Percent: 100},
				{Category: "transport", Amount: money(t, "20"), Percent: 100},
			}},
		},
	}

	labels := map[string]string{"food": "Food", "transport": "Transport"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			png, err := g.MonthlyBreakdown(tt.ov, func(id string) string { return labels[id] })
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
				t.Fatalf("output is not a PNG (%d bytes)", len(png))
			}
		})
	}
}
