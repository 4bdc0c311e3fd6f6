// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"nossosgastos/internal/cache"
	"nossosgastos/internal/core"
	"nossosgastos/internal/middleware/trace"
	"nossosgastos/internal/services"
)

// Ledger is the service surface the handlers need.
type Ledger interface {
	CreateTransaction(ctx context.Context, draft core.Draft) (core.Transaction, error)
	Transactions(ctx context.Context, monthKey string) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	CreateInstallmentPlan(ctx context.Context, draft core.Draft, count int, perInstallment core.Money) ([]core.Transaction, error)
	InstallmentPlans(ctx context.Context) ([]core.InstallmentPlan, error)
	DeleteInstallmentPlan(ctx context.Context, groupID string) error

	PreviewBilling(ctx context.Context, purchase core.Date, cardID string) (*core.BillingInfo, error)
	UpcomingInvoices(ctx context.Context) ([]core.MonthlyInvoice, error)
	MonthSummary(ctx context.Context, monthKey string) (core.Summary, error)

	CreateCard(ctx context.Context, card core.Card) (core.Card, error)
	ListCards(ctx context.Context) ([]core.Card, error)
	UpdateCard(ctx context.Context, card core.Card) error
	DeleteCard(ctx context.Context, id string) error

	CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error)
	ListRecurring(ctx context.Context) ([]core.RecurringTransaction, error)
	DeleteRecurring(ctx context.Context, id string) error

	CreateSalary(ctx context.Context, salary core.Salary) (core.Salary, error)
	ListSalaries(ctx context.Context) ([]core.Salary, error)
	DeleteSalary(ctx context.Context, id string) error

	CreateInvestment(ctx context.Context, inv core.Investment) (core.Investment, error)
	Investments(ctx context.Context) ([]services.InvestmentStatus, error)
	DeleteInvestment(ctx context.Context, id string) error
	RecordInvestmentMovement(ctx context.Context, m core.InvestmentMovement) (core.InvestmentMovement, error)
}

type Server struct {
	http.Server
	ledger Ledger

	// Derived views are cheap to rebuild but hit on every page load, so
	// they sit behind a small TTL cache purged on any write.
	invoiceCache *cache.Store[[]invoiceJSON]
	planCache    *cache.Store[[]planJSON]
	summaryCache *cache.Store[summaryJSON]
}

// NewServer wires routes and caches and returns a ready-to-run server.
func NewServer(addr string, ledger Ledger, cacheTTL time.Duration) *Server {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	s := &Server{
		ledger:       ledger,
		invoiceCache: cache.New[[]invoiceJSON](4, cacheTTL),
		planCache:    cache.New[[]planJSON](4, cacheTTL),
		summaryCache: cache.New[summaryJSON](24, cacheTTL),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleHealth)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/installments", s.handleListInstallmentPlans)
	mux.HandleFunc("POST /api/installments", s.handleCreateInstallmentPlan)
	mux.HandleFunc("DELETE /api/installments/{groupID}", s.handleDeleteInstallmentPlan)

	mux.HandleFunc("GET /api/billing-preview", s.handleBillingPreview)
	mux.HandleFunc("GET /api/invoices", s.handleInvoices)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("GET /api/cards", s.handleListCards)
	mux.HandleFunc("POST /api/cards", s.handleCreateCard)
	mux.HandleFunc("PUT /api/cards/{id}", s.handleUpdateCard)
	mux.HandleFunc("DELETE /api/cards/{id}", s.handleDeleteCard)

	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)

	mux.HandleFunc("GET /api/salaries", s.handleListSalaries)
	mux.HandleFunc("POST /api/salaries", s.handleCreateSalary)
	mux.HandleFunc("DELETE /api/salaries/{id}", s.handleDeleteSalary)

	mux.HandleFunc("GET /api/investments", s.handleListInvestments)
	mux.HandleFunc("POST /api/investments", s.handleCreateInvestment)
	mux.HandleFunc("DELETE /api/investments/{id}", s.handleDeleteInvestment)
	mux.HandleFunc("POST /api/investments/{id}/movements", s.handleCreateInvestmentMovement)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           trace.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// StartCacheJanitor sweeps expired cache entries until ctx is done.
func (s *Server) StartCacheJanitor(ctx context.Context, interval time.Duration) {
	s.invoiceCache.StartJanitor(ctx, interval)
	s.planCache.StartJanitor(ctx, interval)
	s.summaryCache.StartJanitor(ctx, interval)
}

// invalidateViews drops every cached derived view. Called on any mutation
// so reads never serve a pre-write snapshot.
func (s *Server) invalidateViews() {
	s.invoiceCache.Purge()
	s.planCache.Purge()
	s.summaryCache.Purge()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
