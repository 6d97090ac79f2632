// Package category holds the fixed income and expense category tables.
package category

import "piggy/internal/core"

// Other is the catch-all category id present in both lists.
const Other = "other"

// Category is a static classification tag shown next to a transaction.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Unknown is returned for ids the registry does not recognise.
var Unknown = Category{Name: "unknown", Icon: "❓"}

// Registry resolves (type, id) pairs to display metadata.
type Registry struct {
	lists map[core.TransactionType][]Category
}

// NewRegistry returns the registry with the built-in category tables.
func NewRegistry() *Registry {
	return &Registry{
		lists: map[core.TransactionType][]Category{
			core.Income: {
				{ID: "salary", Name: "Salary", Icon: "💼"},
				{ID: "bonus", Name: "Bonus", Icon: "🎁"},
				{ID: "investment", Name: "Investment", Icon: "📈"},
				{ID: "parttime", Name: "Part-time", Icon: "💪"},
				{ID: "gift", Name: "Gift money", Icon: "🧧"},
				{ID: "refund", Name: "Refund", Icon: "↩️"},
				{ID: Other, Name: "Other", Icon: "💰"},
			},
			core.Expense: {
				{ID: "food", Name: "Food", Icon: "🍔"},
				{ID: "transport", Name: "Transport", Icon: "🚗"},
				{ID: "shopping", Name: "Shopping", Icon: "🛍️"},
				{ID: "entertainment", Name: "Entertainment", Icon: "🎮"},
				{ID: "medical", Name: "Medical", Icon: "💊"},
				{ID: "education", Name: "Education", Icon: "📚"},
				{ID: "housing", Name: "Housing", Icon: "🏠"},
				{ID: Other, Name: "Other", Icon: "💸"},
			},
		},
	}
}

// Resolve returns the category for id within the list for t, or Unknown
// (carrying the requested id) when either the type or the id is not found.
func (r *Registry) Resolve(t core.TransactionType, id string) Category {
	for _, c := range r.lists[t] {
		if c.ID == id {
			return c
		}
	}
	u := Unknown
	u.ID = id
	return u
}

// List returns a copy of the categories for t in display order.
func (r *Registry) List(t core.TransactionType) []Category {
	return append([]Category(nil), r.lists[t]...)
}

// Has reports whether id is a known category for t.
func (r *Registry) Has(t core.TransactionType, id string) bool {
	for _, c := range r.lists[t] {
		if c.ID == id {
			return true
		}
	}
	return false
}
