package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// transactionRow is one line of the rendered list. Index is the position in
// the rendered (possibly filtered) view.
type transactionRow struct {
	Index    int
	Position int
	ID       string
	Category string
	Amount   decimal.Decimal
	Date     string
	Kind     string
	Expense  bool
}

type listView struct {
	Rows   []transactionRow
	Filter string
}

type summaryView struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
	Negative bool
}

type categoriesView struct {
	All      []string
	Selected string
}

// transactionJSON is the API shape of a transaction
type transactionJSON struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Signed   decimal.Decimal `json:"signed_amount"`
	Kind     string          `json:"kind"`
	Date     string          `json:"date"`
}

func toJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:       t.ID.String(),
		Category: t.Category,
		Amount:   t.Amount,
		Signed:   t.Signed(),
		Kind:     t.Kind.String(),
		Date:     t.Date,
	}
}

func (s *Server) buildListView(ctx context.Context, filter string) (listView, error) {
	items, err := s.ledger.ListTransactions(ctx, filter)
	if err != nil {
		return listView{}, err
	}
	view := listView{Filter: filter, Rows: make([]transactionRow, 0, len(items))}
	for i, t := range items {
		view.Rows = append(view.Rows, transactionRow{
			Index:    i,
			Position: i + 1,
			ID:       t.ID.String(),
			Category: t.Category,
			Amount:   t.Amount,
			Date:     t.Date,
			Kind:     t.Kind.String(),
			Expense:  t.Kind == core.Expense,
		})
	}
	return view, nil
}

func (s *Server) buildSummaryView(ctx context.Context) (summaryView, error) {
	sum, err := s.ledger.Summary(ctx)
	if err != nil {
		return summaryView{}, err
	}
	return summaryView{
		Income:   sum.Income,
		Expenses: sum.Expenses,
		Balance:  sum.Balance,
		Negative: sum.Balance.IsNegative(),
	}, nil
}

func (s *Server) buildCategoriesView(ctx context.Context, selected string) (categoriesView, error) {
	cats, err := s.ledger.Categories(ctx)
	if err != nil {
		return categoriesView{}, err
	}
	return categoriesView{All: cats, Selected: selected}, nil
}

// handleCreateTransaction adds a transaction from a form or JSON body.
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.events.LogWarn(r.Context(), "Malformed request body", err, applog.ComponentHTTP, applog.OpParse, applog.ErrorTypeValidation)
		s.writeError(w, r, p.IsJSON(), http.StatusBadRequest, "Malformed request body")
		return
	}

	t, err := s.ledger.AddTransaction(r.Context(), ParseTransactionInput(p))
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			s.writeError(w, r, p.IsJSON(), http.StatusUnprocessableEntity, ve.Error())
			return
		}
		s.internalError(w, r, "Add transaction failed", err, applog.OpAdd)
		return
	}
	s.recordAdded()

	if p.IsJSON() {
		writeJSON(w, http.StatusCreated, toJSON(t))
		return
	}

	NewHTMXResponse().
		TriggerTransactionAdded(t.ID.String()).
		TriggerLedgerChanged().
		TriggerFormReset().
		TriggerSuccessNotification("Transaction added").
		BodyHTML(`<div class="success">Added ` +
			template.HTMLEscapeString(t.Kind.String()) + ` ` +
			template.HTMLEscapeString(core.FormatDollars(t.Amount)) + ` (` +
			template.HTMLEscapeString(t.Category) + `)</div>`).
		Write(w)
}

// handleDeleteTransaction removes the selected transaction. The selection is
// an id, or an index into the view rendered with the given category filter.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.writeError(w, r, p.IsJSON(), http.StatusBadRequest, "Malformed request body")
		return
	}

	sel, err := ParseSelection(p, r.URL.Query())
	if err != nil {
		s.events.LogWarn(r.Context(), "Invalid selection", err, applog.ComponentHTTP, applog.OpRemove, applog.ErrorTypeValidation)
		s.writeError(w, r, p.IsJSON(), http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.removeSelection(r.Context(), sel)
	switch {
	case errors.Is(err, core.ErrNoSelection):
		s.writeError(w, r, p.IsJSON(), http.StatusBadRequest, core.ErrNoSelection.Error())
		return
	case errors.Is(err, core.ErrNotFound):
		s.writeError(w, r, p.IsJSON(), http.StatusNotFound, "Transaction not found")
		return
	case err != nil:
		s.internalError(w, r, "Remove transaction failed", err, applog.OpRemove)
		return
	}
	s.recordRemoved()

	if p.IsJSON() {
		writeJSON(w, http.StatusOK, toJSON(t))
		return
	}

	NewHTMXResponse().
		TriggerTransactionRemoved(t.ID.String()).
		TriggerLedgerChanged().
		TriggerSuccessNotification("Transaction deleted").
		Write(w)
}

func (s *Server) removeSelection(ctx context.Context, sel Selection) (core.Transaction, error) {
	if sel.HasID {
		return s.ledger.RemoveByID(ctx, sel.ID)
	}
	if sel.Category == "" {
		return s.ledger.RemoveAt(ctx, sel.Index)
	}

	// a filtered view numbers rows differently from the ledger
	view, err := s.ledger.ListTransactions(ctx, sel.Category)
	if err != nil {
		return core.Transaction{}, err
	}
	switch {
	case sel.Index < 0:
		return core.Transaction{}, core.NewIndexNotFoundError(sel.Index, core.ErrNoSelection)
	case sel.Index >= len(view):
		return core.Transaction{}, core.NewIndexNotFoundError(sel.Index, core.ErrOutOfRange)
	}
	return s.ledger.RemoveByID(ctx, view[sel.Index].ID)
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	if !s.templatesReady(w, r) {
		return
	}

	view, err := s.buildListView(r.Context(), parseCategoryFilter(r.URL.Query()))
	if err != nil {
		s.internalError(w, r, "List transactions failed", err, applog.OpList)
		return
	}
	s.render(w, r, "transactions", view)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	if !s.templatesReady(w, r) {
		return
	}

	view, err := s.buildSummaryView(r.Context())
	if err != nil {
		s.internalError(w, r, "Summary failed", err, applog.OpSummary)
		return
	}
	s.render(w, r, "summary", view)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	if !s.templatesReady(w, r) {
		return
	}

	view, err := s.buildCategoriesView(r.Context(), parseCategoryFilter(r.URL.Query()))
	if err != nil {
		s.internalError(w, r, "Categories failed", err, applog.OpCategories)
		return
	}
	s.render(w, r, "categories", view)
}

func (s *Server) handleAPITransactions(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	filter := parseCategoryFilter(r.URL.Query())
	items, err := s.ledger.ListTransactions(r.Context(), filter)
	if err != nil {
		s.internalError(w, r, "List transactions failed", err, applog.OpList)
		return
	}
	out := make([]transactionJSON, 0, len(items))
	for _, t := range items {
		out = append(out, toJSON(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": out,
		"count":        len(out),
		"category":     filter,
	})
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	sum, err := s.ledger.Summary(r.Context())
	if err != nil {
		s.internalError(w, r, "Summary failed", err, applog.OpSummary)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{
		"income":   sum.Income,
		"expenses": sum.Expenses,
		"balance":  sum.Balance,
	})
}

func (s *Server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	cats, err := s.ledger.Categories(r.Context())
	if err != nil {
		s.internalError(w, r, "Categories failed", err, applog.OpCategories)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": cats})
}
