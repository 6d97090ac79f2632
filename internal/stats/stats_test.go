package stats

import (
	"testing"

	"piggy/internal/core"
)

func tx(id string, typ core.TransactionType, amount, category, date string) core.Transaction {
	m, err := core.ParseMoney(amount)
	if err != nil {
		panic(err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{ID: id, Type: typ, Amount: m, Category: category, Date: d}
}

func TestComputeBalanceEmpty(t *testing.T) {
	b := ComputeBalance(nil)
	if !b.Balance.IsZero() || !b.Income.IsZero() || !b.Expense.IsZero() {
		t.Fatalf("expected all zero, got %+v", b)
	}
}

func TestComputeBalanceExample(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "35.50", "food", "2024-03-01"),
		tx("2", core.Income, "5000", "salary", "2024-03-01"),
	}
	b := ComputeBalance(txs)
	if b.Balance.String() != "4964.5" || b.Income.String() != "5000" || b.Expense.String() != "35.5" {
		t.Fatalf("unexpected balance %s income %s expense %s", b.Balance, b.Income, b.Expense)
	}
}

func TestComputeBalanceIdentity(t *testing.T) {
	txs := []core.Transaction{
		tx("1", core.Expense, "0.10", "food", "2024-01-01"),
		tx("2", core.Expense, "0.20", "food", "2024-01-02"),
		tx("3", core.Income, "0.30", "gift", "2024-01-03"),
		tx("4", core.Expense, "100", "housing", "2024-02-01"),
	}
	b := ComputeBalance(txs)
	if !b.Balance.Equal(b.Income.Sub(b.Expense)) {
		t.Fatalf("balance != income - expense")
	}
	if b.Income.Cmp(core.Zero) < 0 || b.Expense.Cmp(core.Zero) < 0 {
		t.Fatalf("totals must be non-negative")
	}
	if b.Expense.String() != "100.3" {
		t.Fatalf("expected exact expense 100.3, got %s", b.Expense)
	}
}

func TestParseFilter(t *testing.T) {
	for in, want := range map[string]Filter{"": FilterAll, "all": FilterAll, "INCOME": FilterIncome, "expense": FilterExpense} {
		got, err := ParseFilter(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v", in, got, err)
		}
	}
	if _, err := ParseFilter("weekly"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestFilterAndSort(t *testing.T) {
	txs := []core.Transaction{
		tx("a", core.Income, "1", "salary", "2024-01-05"),
		tx("b", core.Expense, "2", "food", "2024-03-01"),
		tx("c", core.Income, "3", "bonus", "2024-03-01"),
		tx("d", core.Income, "4", "gift", "2023-12-31"),
		tx("e", core.Income, "5", "refund", "2024-03-01"),
	}

	all := FilterAndSort(txs, FilterAll)
	wantAll := []string{"b", "c", "e", "a", "d"}
	if len(all) != len(wantAll) {
		t.Fatalf("expected %d rows, got %d", len(wantAll), len(all))
	}
	for i, id := range wantAll {
		if all[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, all[i].ID, id)
		}
	}

	income := FilterAndSort(txs, FilterIncome)
	for i, r := range income {
		if r.Type != core.Income {
			t.Fatalf("non-income row %s in income view", r.ID)
		}
		if i > 0 && income[i-1].Date.Compare(r.Date) < 0 {
			t.Fatalf("income view not non-increasing by date at %d", i)
		}
	}
	if len(income) != 4 || income[0].ID != "c" || income[1].ID != "e" {
		t.Fatalf("unexpected income order: %v", ids(income))
	}

	expense := FilterAndSort(txs, FilterExpense)
	if len(expense) != 1 || expense[0].ID != "b" {
		t.Fatalf("unexpected expense view: %v", ids(expense))
	}

	// Input must be left untouched.
	if txs[0].ID != "a" || txs[4].ID != "e" {
		t.Fatalf("input slice was reordered")
	}
}

func TestMonthlyExpenseByCategoryEmpty(t *testing.T) {
	ref := core.NewDate(2024, 3, 15)
	txs := []core.Transaction{
		tx("1", core.Income, "5000", "salary", "2024-03-01"),
		tx("2", core.Expense, "20", "food", "2024-02-29"),
		tx("3", core.Expense, "20", "food", "2023-03-10"),
	}
	overview, ok := MonthlyExpenseByCategory(txs, ref)
	if ok {
		t.Fatalf("expected no data, got %+v", overview)
	}
	if overview.ByCategory != nil || !overview.Total.IsZero() {
		t.Fatalf("empty result should carry no groups, got %+v", overview)
	}
	if overview.Year != 2024 || overview.Month != 3 {
		t.Fatalf("unexpected period %d-%d", overview.Year, overview.Month)
	}

	if _, ok := MonthlyExpenseByCategory(nil, ref); ok {
		t.Fatalf("expected no data for empty ledger")
	}
}

func TestMonthlyExpenseByCategoryTie(t *testing.T) {
	ref := core.NewDate(2024, 3, 31)
	txs := []core.Transaction{
		tx("1", core.Expense, "20", "transport", "2024-03-02"),
		tx("2", core.Expense, "20", "food", "2024-03-01"),
	}
	for run := 0; run < 5; run++ {
		overview, ok := MonthlyExpenseByCategory(txs, ref)
		if !ok {
			t.Fatalf("expected data")
		}
		if len(overview.ByCategory) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(overview.ByCategory))
		}
		if overview.ByCategory[0].Category != "food" || overview.ByCategory[1].Category != "transport" {
			t.Fatalf("tie not broken by category id: %+v", overview.ByCategory)
		}
		for _, g := range overview.ByCategory {
			if g.Percent != 100 {
				t.Fatalf("expected 100%% for tie, got %v", g.Percent)
			}
		}
		if overview.Total.String() != "40" {
			t.Fatalf("unexpected total %s", overview.Total)
		}
	}
}

func TestMonthlyExpenseByCategoryGrouping(t *testing.T) {
	ref := core.NewDate(2024, 3, 1)
	txs := []core.Transaction{
		tx("1", core.Expense, "10", "food", "2024-03-01"),
		tx("2", core.Expense, "30", "food", "2024-03-20"),
		tx("3", core.Expense, "100", "housing", "2024-03-05"),
		tx("4", core.Expense, "25", "transport", "2024-03-31"),
		tx("5", core.Income, "999", "salary", "2024-03-01"),
		tx("6", core.Expense, "500", "housing", "2024-04-01"),
	}
	overview, ok := MonthlyExpenseByCategory(txs, ref)
	if !ok {
		t.Fatalf("expected data")
	}
	want := []struct {
		cat     string
		amount  string
		percent float64
	}{
		{"housing", "100", 100},
		{"food", "40", 40},
		{"transport", "25", 25},
	}
	if len(overview.ByCategory) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(overview.ByCategory))
	}
	for i, w := range want {
		g := overview.ByCategory[i]
		if g.Category != w.cat || g.Amount.String() != w.amount || g.Percent != w.percent {
			t.Fatalf("group %d: got %s %s %v, want %s %s %v", i, g.Category, g.Amount, g.Percent, w.cat, w.amount, w.percent)
		}
	}
	if overview.Total.String() != "165" {
		t.Fatalf("unexpected total %s", overview.Total)
	}
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}
