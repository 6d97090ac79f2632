// Package stats computes derived, read-only views over a ledger snapshot:
// the running balance, filtered history and the monthly expense breakdown.
// Every function here is pure; none of them retain or modify their input.
package stats

import (
	"fmt"
	"slices"
	"strings"

	"piggy/internal/core"
)

// Filter selects which transaction types a history view shows.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterIncome  Filter = "income"
	FilterExpense Filter = "expense"
)

// ParseFilter maps a query value onto a Filter. The empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterIncome, FilterExpense:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

func (f Filter) keeps(t core.TransactionType) bool {
	switch f {
	case FilterIncome:
		return t == core.Income
	case FilterExpense:
		return t == core.Expense
	default:
		return true
	}
}

// Balance holds the totals shown in the header.
type Balance struct {
	Balance core.Money
	Income  core.Money
	Expense core.Money
}

// ComputeBalance sums income and expense and returns their difference.
func ComputeBalance(txs []core.Transaction) Balance {
	var b Balance
	for _, t := range txs {
		switch t.Type {
		case core.Income:
			b.Income = b.Income.Add(t.Amount)
		case core.Expense:
			b.Expense = b.Expense.Add(t.Amount)
		}
	}
	b.Balance = b.Income.Sub(b.Expense)
	return b
}

// FilterAndSort returns the transactions kept by f, most recent date first.
// The sort is stable, so records sharing a date keep their insertion order.
func FilterAndSort(txs []core.Transaction, f Filter) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if f.keeps(t.Type) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// MonthlyExpenseByCategory groups the expenses dated in ref's calendar month
// by category. Groups are ordered by amount descending, then by category id,
// and each carries its percentage of the largest group.
//
// The second return value is false when the month has no expenses; the
// overview then carries only Year, Month and a zero Total, and no percentage
// is computed.
func MonthlyExpenseByCategory(txs []core.Transaction, ref core.Date) (core.MonthOverview, bool) {
	overview := core.MonthOverview{
		Year:  ref.Year(),
		Month: ref.Month(),
	}

	sums := map[string]core.Money{}
	for _, t := range txs {
		if t.Type != core.Expense || !t.Date.SameMonth(ref) {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
		overview.Total = overview.Total.Add(t.Amount)
	}
	if len(sums) == 0 {
		return overview, false
	}

	overview.ByCategory = make([]core.CategoryAmount, 0, len(sums))
	for cat, amount := range sums {
		overview.ByCategory = append(overview.ByCategory, core.CategoryAmount{
			Category: cat,
			Amount:   amount,
		})
	}
	slices.SortFunc(overview.ByCategory, func(a, b core.CategoryAmount) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(a.Category, b.Category)
	})

	largest := overview.ByCategory[0].Amount
	for i := range overview.ByCategory {
		overview.ByCategory[i].Percent = overview.ByCategory[i].Amount.PercentOf(largest)
	}
	return overview, true
}
