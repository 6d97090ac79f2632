package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is one recorded income or expense event. Records are
	// immutable once created; the ledger only appends and removes them.
	Transaction struct {
		ID        string          `json:"id"`
		Type      TransactionType `json:"type"`
		Amount    Money           `json:"amount"`
		Category  string          `json:"category"`
		Note      string          `json:"note"`
		Date      Date            `json:"date"`
		CreatedAt time.Time       `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrMissingCategory = errors.New("missing category")
	ErrMissingDate     = errors.New("missing date")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyID         = errors.New("empty id")
)

// TransactionTypes lists every transaction type in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{Income, Expense}
}

func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if t is one of the two known types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	default:
		return false
	}
}

// Sign returns the display prefix for amounts of this type.
func (t TransactionType) Sign() string {
	if t == Income {
		return "+"
	}
	return "-"
}

// ParseTransactionType maps the wire form onto the closed enum.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

func (t TransactionType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, string(t))
	}
	return []byte(t), nil
}

func (t *TransactionType) UnmarshalText(b []byte) error {
	parsed, err := ParseTransactionType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Validate checks the invariants every stored transaction must hold.
// Category membership in the registry is not checked.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}
