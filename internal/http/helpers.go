package http

import (
	"strings"

	"github.com/google/uuid"

	"piggy/internal/category"
	"piggy/internal/core"
)

// sanitizeInput removes control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	return "req_" + uuid.NewString()
}

type categoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func newCategoryView(id string, c category.Category) categoryView {
	return categoryView{ID: id, Name: c.Name, Icon: c.Icon}
}

// transactionView is one row of the transaction list.
type transactionView struct {
	ID            string               `json:"id"`
	Type          core.TransactionType `json:"type"`
	Amount        core.Money           `json:"amount"`
	AmountDisplay string               `json:"amountDisplay"`
	Category      categoryView         `json:"category"`
	Note          string               `json:"note"`
	Date          core.Date            `json:"date"`
	DateLabel     string               `json:"dateLabel"`
}

func (s *Server) newTransactionView(tx core.Transaction, today core.Date) transactionView {
	return transactionView{
		ID:            tx.ID,
		Type:          tx.Type,
		Amount:        tx.Amount,
		AmountDisplay: tx.Type.Sign() + tx.Amount.Format(s.symbol),
		Category:      newCategoryView(tx.Category, s.store.ResolveCategory(tx.Type, tx.Category)),
		Note:          tx.Note,
		Date:          tx.Date,
		DateLabel:     tx.Date.Relative(today),
	}
}
