package core

import (
	"strings"
	"time"
	"unicode/utf16"
)

// MaxNoteLength is the note limit in UTF-16 code units, the unit browsers
// count string length in.
const MaxNoteLength = 50

// Draft holds the raw fields a user submits when recording a transaction.
type Draft struct {
	Type     TransactionType
	Amount   string
	Category string
	Note     string
	Date     string
}

// ValidationError reports which draft field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing rejection text for the field.
func (e *ValidationError) Message() string {
	switch e.Field {
	case "amount":
		return "Please enter a valid amount"
	case "category":
		return "Please choose a category"
	case "date":
		return "Please choose a date"
	case "type":
		return "Please choose income or expense"
	default:
		return "Invalid " + e.Field
	}
}

// Build validates the draft and turns it into a Transaction with the given
// id and creation time. Amount, category and date are checked in that order;
// the note is trimmed and truncated, never rejected.
func (d Draft) Build(id string, createdAt time.Time) (Transaction, error) {
	if !d.Type.IsValid() {
		return Transaction{}, &ValidationError{Field: "type", Err: ErrInvalidType}
	}
	amount, err := ParseMoney(d.Amount)
	if err != nil {
		return Transaction{}, &ValidationError{Field: "amount", Err: err}
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		return Transaction{}, &ValidationError{Field: "category", Err: ErrMissingCategory}
	}
	date, err := ParseDate(d.Date)
	if err != nil {
		return Transaction{}, &ValidationError{Field: "date", Err: err}
	}
	return Transaction{
		ID:        id,
		Type:      d.Type,
		Amount:    amount,
		Category:  category,
		Note:      TruncateNote(d.Note),
		Date:      date,
		CreatedAt: createdAt.UTC(),
	}, nil
}

// TruncateNote trims s and cuts it to MaxNoteLength UTF-16 code units without
// splitting a surrogate pair.
func TruncateNote(s string) string {
	s = strings.TrimSpace(s)
	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1 // invalid UTF-8 decodes to U+FFFD
		}
		if units+n > MaxNoteLength {
			return s[:i]
		}
		units += n
	}
	return s
}
