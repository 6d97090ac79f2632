package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-03-01 ")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d != NewDate(2024, 3, 1) {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate(""); !errors.Is(err, ErrMissingDate) {
		t.Fatalf("expected ErrMissingDate, got %v", err)
	}
	for _, in := range []string{"2024-13-01", "2024-02-30", "01/03/2024", "yesterday"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestDateCompareAndMonth(t *testing.T) {
	a := NewDate(2024, 2, 29)
	b := NewDate(2024, 3, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatalf("unexpected ordering")
	}
	if a.SameMonth(b) {
		t.Fatalf("different months reported as same")
	}
	if !b.SameMonth(NewDate(2024, 3, 31)) {
		t.Fatalf("same month reported as different")
	}
	if b.SameMonth(NewDate(2023, 3, 1)) {
		t.Fatalf("same month of another year reported as same")
	}
}

func TestDateRelative(t *testing.T) {
	today := NewDate(2024, 3, 10)
	cases := []struct {
		d    Date
		want string
	}{
		{NewDate(2024, 3, 10), "today"},
		{NewDate(2024, 3, 9), "yesterday"},
		{NewDate(2024, 3, 5), "5 days ago"},
		{NewDate(2024, 3, 3), "Mar 3"},
		{NewDate(2024, 3, 12), "Mar 12"},
	}
	for _, tc := range cases {
		if got := tc.d.Relative(today); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 3, 1))
	if err != nil || string(b) != `"2024-03-01"` {
		t.Fatalf("unexpected marshal: %s err=%v", b, err)
	}
	var d Date
	if err := json.Unmarshal([]byte(`"2024-12-31"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d != NewDate(2024, 12, 31) {
		t.Fatalf("unexpected date %v", d)
	}
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{"income": Income, " Expense ": Expense} {
		got, err := ParseTransactionType(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v", in, got, err)
		}
	}
	if _, err := ParseTransactionType("transfer"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	var tt TransactionType
	if err := json.Unmarshal([]byte(`"refund"`), &tt); err == nil {
		t.Fatalf("expected error unmarshalling unknown type")
	}
}

func TestTransactionValidate(t *testing.T) {
	amount, _ := ParseMoney("10")
	good := Transaction{ID: "a", Type: Expense, Amount: amount, Category: "food", Date: NewDate(2024, 1, 1)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{ID: "", Type: Expense, Amount: amount, Date: NewDate(2024, 1, 1)},
		{ID: "a", Type: "gift", Amount: amount, Date: NewDate(2024, 1, 1)},
		{ID: "a", Type: Expense, Amount: Zero, Date: NewDate(2024, 1, 1)},
		{ID: "a", Type: Expense, Amount: amount},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionJSONShape(t *testing.T) {
	amount, _ := ParseMoney("35.50")
	tx := Transaction{
		ID:        "01HX",
		Type:      Expense,
		Amount:    amount,
		Category:  "food",
		Note:      "lunch",
		Date:      NewDate(2024, 3, 1),
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"01HX","type":"expense","amount":35.5,"category":"food","note":"lunch","date":"2024-03-01","createdAt":"2024-03-01T12:00:00Z"}`
	if string(b) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", b, want)
	}

	var back Transaction
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Amount.Equal(amount) || back.Date != tx.Date || !back.CreatedAt.Equal(tx.CreatedAt) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestDraftBuild(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	good := Draft{Type: Expense, Amount: "35.50", Category: "food", Note: "  lunch  ", Date: "2024-03-01"}
	tx, err := good.Build("id-1", now)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.ID != "id-1" || tx.Note != "lunch" || tx.Date != NewDate(2024, 3, 1) || !tx.CreatedAt.Equal(now) {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	cases := []struct {
		name  string
		draft Draft
		field string
		err   error
	}{
		{"zero amount", Draft{Type: Expense, Amount: "0", Category: "food", Date: "2024-03-01"}, "amount", ErrInvalidAmount},
		{"negative amount", Draft{Type: Expense, Amount: "-5", Category: "food", Date: "2024-03-01"}, "amount", ErrInvalidAmount},
		{"missing category", Draft{Type: Income, Amount: "5", Category: " ", Date: "2024-03-01"}, "category", ErrMissingCategory},
		{"missing date", Draft{Type: Income, Amount: "5", Category: "salary"}, "date", ErrMissingDate},
		{"bad date", Draft{Type: Income, Amount: "5", Category: "salary", Date: "2024-02-31"}, "date", ErrInvalidDate},
		{"bad type", Draft{Type: "loan", Amount: "5", Category: "salary", Date: "2024-03-01"}, "type", ErrInvalidType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.draft.Build("x", now)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field || !errors.Is(err, tc.err) {
				t.Fatalf("got field=%s err=%v", verr.Field, err)
			}
			if verr.Message() == "" {
				t.Fatalf("expected a user-facing message")
			}
		})
	}
}

func TestTruncateNote(t *testing.T) {
	long := strings.Repeat("a", 60)
	if got := TruncateNote(long); len(got) != MaxNoteLength {
		t.Fatalf("expected %d chars, got %d", MaxNoteLength, len(got))
	}
	if got := TruncateNote("short"); got != "short" {
		t.Fatalf("unexpected %q", got)
	}

	// Each emoji is a surrogate pair: two code units.
	emoji := strings.Repeat("🍔", 30)
	got := TruncateNote(emoji)
	if got != strings.Repeat("🍔", 25) {
		t.Fatalf("expected 25 emoji, got %d runes", len([]rune(got)))
	}

	// A pair that would straddle the limit is dropped whole.
	odd := strings.Repeat("a", 49) + "🍔"
	if got := TruncateNote(odd); got != strings.Repeat("a", 49) {
		t.Fatalf("unexpected %q", got)
	}

	// Chinese characters are single code units.
	cjk := strings.Repeat("饭", 55)
	if got := TruncateNote(cjk); len([]rune(got)) != MaxNoteLength {
		t.Fatalf("expected %d runes, got %d", MaxNoteLength, len([]rune(got)))
	}
}
