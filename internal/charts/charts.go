// Package charts renders ledger summaries as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"piggy/internal/core"
)

var ErrNoData = errors.New("nothing to chart")

const (
	barWidth   = 48
	barSpacing = 24
	minWidth   = 480
	axisMargin = 160
)

// Generator draws charts with amounts labelled in one currency symbol.
type Generator struct {
	Symbol string
	Height int
}

func NewGenerator(symbol string) *Generator {
	return &Generator{Symbol: symbol, Height: 400}
}

// MonthlyBreakdown draws one bar per expense category of the overview, in
// the overview's order. label maps a category id to its display name.
func (g *Generator) MonthlyBreakdown(ov core.MonthOverview, label func(id string) string) ([]byte, error) {
	if len(ov.ByCategory) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, len(ov.ByCategory))
	largest := 0.0
	for _, c := range ov.ByCategory {
		v := c.Amount.Float64()
		if v > largest {
			largest = v
		}
		bars = append(bars, chart.Value{
			Label: label(c.Category),
			Value: v,
		})
	}

	width := axisMargin + len(bars)*(barWidth+barSpacing)
	if width < minWidth {
		width = minWidth
	}

	graph := chart.BarChart{
		Title:      fmt.Sprintf("Expenses %04d-%02d: %s", ov.Year, ov.Month, ov.Total.Format(g.Symbol)),
		Width:      width,
		Height:     g.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: largest},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s%.0f", g.Symbol, f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render monthly breakdown: %w", err)
	}
	return buffer.Bytes(), nil
}
