package http

import (
	"net/http"
	"strings"
	"time"

	"nossosgastos/internal/core"
)

type createTransactionRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	CategoryID  string `json:"category_id"`
	Date        string `json:"date"`
	Person      string `json:"person"`
	CardID      string `json:"card_id"`
}

func (req createTransactionRequest) toDraft() (core.Draft, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Draft{}, err
	}
	purchase, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return core.Draft{}, err
	}
	return core.Draft{
		Type:         core.TransactionType(req.Type),
		Description:  strings.TrimSpace(req.Description),
		Amount:       core.Money{Cents: cents},
		CategoryID:   strings.TrimSpace(req.CategoryID),
		PurchaseDate: purchase,
		Person:       core.Person(req.Person),
		CardID:       strings.TrimSpace(req.CardID),
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tx, err := s.ledger.CreateTransaction(r.Context(), draft)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	monthKey := strings.TrimSpace(r.URL.Query().Get("month"))
	txs, err := s.ledger.Transactions(r.Context(), monthKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(txs))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

type createInstallmentRequest struct {
	createTransactionRequest
	Installments   int    `json:"installments"`
	PerInstallment string `json:"per_installment,omitempty"`
}

func (s *Server) handleCreateInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	var req createInstallmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	draft, err := req.toDraft()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var perInstallment core.Money
	if strings.TrimSpace(req.PerInstallment) != "" {
		cents, err := core.ParseDecimalToCents(req.PerInstallment)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		perInstallment = core.Money{Cents: cents}
	}

	rows, err := s.ledger.CreateInstallmentPlan(r.Context(), draft, req.Installments, perInstallment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusCreated, toTransactionListJSON(rows))
}

func (s *Server) handleListInstallmentPlans(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.planCache.Get("plans"); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	plans, err := s.ledger.InstallmentPlans(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]planJSON, len(plans))
	for i, p := range plans {
		out[i] = toPlanJSON(p)
	}
	s.planCache.Set("plans", out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteInstallmentPlan(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteInstallmentPlan(r.Context(), r.PathValue("groupID")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBillingPreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cardID := strings.TrimSpace(q.Get("card_id"))
	if cardID == "" {
		writeError(w, http.StatusBadRequest, "card_id is required")
		return
	}
	purchase, err := core.ParseDate(strings.TrimSpace(q.Get("date")))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	info, err := s.ledger.PreviewBilling(r.Context(), purchase, cardID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, billingJSON{
		BillingMonth:    info.BillingMonth,
		BillingYear:     info.BillingYear,
		BillingDate:     info.BillingDate,
		IsBestDay:       info.IsBestDay,
		GoesToNextMonth: info.GoesToNextMonth,
	})
}

func (s *Server) handleInvoices(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.invoiceCache.Get("invoices"); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	invoices, err := s.ledger.UpcomingInvoices(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]invoiceJSON, len(invoices))
	for i, inv := range invoices {
		out[i] = toInvoiceJSON(inv)
	}
	s.invoiceCache.Set("invoices", out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	monthKey := strings.TrimSpace(r.URL.Query().Get("month"))
	if monthKey == "" {
		now := time.Now()
		monthKey = core.MonthKey(now.Year(), int(now.Month()))
	}
	if cached, ok := s.summaryCache.Get(monthKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.ledger.MonthSummary(r.Context(), monthKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := summaryJSON{
		TotalIncomeCents:     summary.TotalIncome.Cents,
		TotalExpensesCents:   summary.TotalExpenses.Cents,
		BalanceCents:         summary.Balance.Cents,
		UpcomingInstallments: toTransactionListJSON(summary.UpcomingInstallments),
	}
	s.summaryCache.Set(monthKey, out)
	writeJSON(w, http.StatusOK, out)
}
