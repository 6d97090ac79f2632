package core

// CategoryAmount represents an amount aggregated by category id.
type CategoryAmount struct {
	Category string
	Amount   Money
	Percent  float64 // share of the largest category in the same overview, 0-100
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}
