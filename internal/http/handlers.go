package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"piggy/internal/charts"
	"piggy/internal/core"
	"piggy/internal/ledger"
	applog "piggy/internal/log"
	"piggy/internal/stats"
)

const (
	msgAdded        = "Transaction added"
	msgDeleted      = "Transaction deleted"
	msgNotFound     = "Transaction not found"
	msgCleared      = "All data cleared"
	msgExported     = "Data exported"
	msgNothing      = "No data to export"
	msgSaveFailed   = "Saved for this session only; writing to storage failed"
	msgInvalidBody  = "Could not read the submitted form"
	msgInvalidMonth = "Month must be between 1 and 12"
)

type listResponse struct {
	Filter       stats.Filter      `json:"filter"`
	Transactions []transactionView `json:"transactions"`
	Count        int               `json:"count"`
	Empty        bool              `json:"empty"`
}

type commitResponse struct {
	Transaction *transactionView `json:"transaction,omitempty"`
	Removed     *bool            `json:"removed,omitempty"`
	Persisted   bool             `json:"persisted"`
}

type balanceResponse struct {
	Balance        core.Money `json:"balance"`
	Income         core.Money `json:"income"`
	Expense        core.Money `json:"expense"`
	BalanceDisplay string     `json:"balanceDisplay"`
	IncomeDisplay  string     `json:"incomeDisplay"`
	ExpenseDisplay string     `json:"expenseDisplay"`
}

type categoryShare struct {
	categoryView
	Amount        core.Money `json:"amount"`
	AmountDisplay string     `json:"amountDisplay"`
	Percent       float64    `json:"percent"`
}

type monthlyResponse struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Empty        bool            `json:"empty"`
	Total        *core.Money     `json:"total,omitempty"`
	TotalDisplay string          `json:"totalDisplay,omitempty"`
	Categories   []categoryShare `json:"categories,omitempty"`
}

type categoriesResponse struct {
	Type       core.TransactionType `json:"type"`
	Categories []categoryView       `json:"categories"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := stats.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		BadRequestError("Unknown filter; use all, income or expense").Write(w)
		return
	}

	txs := s.store.Filtered(filter)
	today := s.store.Today()
	rows := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, s.newTransactionView(tx, today))
	}

	NewJSONResponse().Data(listResponse{
		Filter:       filter,
		Transactions: rows,
		Count:        len(rows),
		Empty:        len(rows) == 0,
	}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Invalid transaction body", applog.FieldError, err)
		BadRequestError(msgInvalidBody).Write(w)
		return
	}

	// The write must complete even if the client goes away.
	tx, commit, err := s.store.Add(context.WithoutCancel(ctx), parser.Draft())
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			ValidationFailed(verr.Field, verr.Message()).Write(w)
			return
		}
		applog.LogError(ctx, "Failed to add transaction", err, applog.OpCreate, nil)
		InternalServerError("Could not add the transaction").Write(w)
		return
	}

	view := s.newTransactionView(tx, s.store.Today())
	resp := NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+tx.ID).
		Data(commitResponse{Transaction: &view, Persisted: commit.Persisted})
	notifyCommit(resp, commit, msgAdded).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, commit := s.store.Remove(context.WithoutCancel(r.Context()), id)

	resp := NewJSONResponse().Data(commitResponse{Removed: &removed, Persisted: commit.Persisted})
	if !removed {
		resp.Notify(NotificationInfo, msgNotFound).Write(w)
		return
	}
	notifyCommit(resp, commit, msgDeleted).Write(w)
}

func (s *Server) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	commit := s.store.Clear(context.WithoutCancel(r.Context()))
	resp := NewJSONResponse().Data(commitResponse{Persisted: commit.Persisted})
	notifyCommit(resp, commit, msgCleared).Write(w)
}

// notifyCommit picks the notice for a mutation: success when the write
// reached storage, a warning when only memory was updated.
func notifyCommit(b *JSONResponseBuilder, c ledger.Commit, success string) *JSONResponseBuilder {
	if !c.Persisted {
		return b.Warning(msgSaveFailed)
	}
	return b.Success(success)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	b := s.store.Balance()
	NewJSONResponse().Data(balanceResponse{
		Balance:        b.Balance,
		Income:         b.Income,
		Expense:        b.Expense,
		BalanceDisplay: b.Balance.Format(s.symbol),
		IncomeDisplay:  b.Income.Format(s.symbol),
		ExpenseDisplay: b.Expense.Format(s.symbol),
	}).Write(w)
}

// monthly returns the cached expense breakdown for the month. Entries are
// keyed by ledger revision so any mutation bypasses stale results.
func (s *Server) monthly(p MonthParams) (monthlyStats, error) {
	key := s.monthKey(p)
	return s.overviewCache.GetOrLoad(key, func() (monthlyStats, error) {
		ov, ok := s.store.MonthlyExpenseByCategory(p.Ref())
		return monthlyStats{overview: ov, ok: ok}, nil
	})
}

func (s *Server) monthKey(p MonthParams) string {
	return fmt.Sprintf("%d:%04d-%02d", s.store.Revision(), p.Year, p.Month)
}

func (s *Server) parseMonth(w http.ResponseWriter, r *http.Request) (MonthParams, bool) {
	p, err := ParseMonthParams(r.URL.Query(), s.store.Today())
	if err != nil {
		BadRequestError(msgInvalidMonth).Write(w)
		return p, false
	}
	return p, true
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseMonth(w, r)
	if !ok {
		return
	}

	m, err := s.monthly(p)
	if err != nil {
		applog.LogError(r.Context(), "Failed to compute monthly stats", err, applog.OpList,
			applog.NewFields().WithComponent(applog.ComponentHTTP))
		InternalServerError("Could not compute statistics").Write(w)
		return
	}

	resp := monthlyResponse{Year: p.Year, Month: p.Month, Empty: !m.ok}
	if m.ok {
		total := m.overview.Total
		resp.Total = &total
		resp.TotalDisplay = total.Format(s.symbol)
		for _, c := range m.overview.ByCategory {
			resp.Categories = append(resp.Categories, categoryShare{
				categoryView:  newCategoryView(c.Category, s.store.ResolveCategory(core.Expense, c.Category)),
				Amount:        c.Amount,
				AmountDisplay: c.Amount.Format(s.symbol),
				Percent:       c.Percent,
			})
		}
	}
	NewJSONResponse().Data(resp).Write(w)
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseMonth(w, r)
	if !ok {
		return
	}

	png, err := s.chartCache.GetOrLoad(s.monthKey(p), func() ([]byte, error) {
		m, err := s.monthly(p)
		if err != nil {
			return nil, err
		}
		if !m.ok {
			return nil, charts.ErrNoData
		}
		return s.charts.MonthlyBreakdown(m.overview, func(id string) string {
			return s.store.ResolveCategory(core.Expense, id).Name
		})
	})
	if errors.Is(err, charts.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		applog.LogError(r.Context(), "Failed to render monthly chart", err, applog.OpRender,
			applog.NewFields().WithComponent(applog.ComponentChart))
		InternalServerError("Could not render the chart").Write(w)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	t, err := core.ParseTransactionType(chi.URLParam(r, "type"))
	if err != nil {
		NotFoundError("Unknown transaction type").Write(w)
		return
	}

	cats := s.store.Categories(t)
	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, newCategoryView(c.ID, c))
	}
	NewJSONResponse().Data(categoriesResponse{Type: t, Categories: views}).Write(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	exp, err := s.store.ExportSnapshot(s.store.Now())
	if errors.Is(err, ledger.ErrNothingToExport) {
		ErrorResponse(http.StatusConflict, "empty", msgNothing).Write(w)
		return
	}
	if err != nil {
		applog.LogError(r.Context(), "Failed to export ledger", err, applog.OpExport, nil)
		InternalServerError("Could not export data").Write(w)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Ledger exported",
		applog.FieldOperation, applog.OpExport,
		"count", exp.Count)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exp.Filename))
	w.Header().Set("X-Notice", msgExported)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Body)
}
