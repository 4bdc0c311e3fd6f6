package http

import (
	"net/http"
	"strings"

	"nossosgastos/internal/core"
	"nossosgastos/internal/services"
)

type cardRequest struct {
	Name            string `json:"name"`
	Color           string `json:"color"`
	ClosingDay      int    `json:"closing_day"`
	DueDay          int    `json:"due_day"`
	BestPurchaseDay int    `json:"best_purchase_day"`
}

func (req cardRequest) toCard(id string) core.Card {
	return core.Card{
		ID:              id,
		Name:            strings.TrimSpace(req.Name),
		Color:           strings.TrimSpace(req.Color),
		ClosingDay:      req.ClosingDay,
		DueDay:          req.DueDay,
		BestPurchaseDay: req.BestPurchaseDay,
	}
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, err := s.ledger.CreateCard(r.Context(), req.toCard(""))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusCreated, toCardJSON(card))
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.ledger.ListCards(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]cardJSON, len(cards))
	for i, c := range cards {
		out[i] = toCardJSON(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card := req.toCard(r.PathValue("id"))
	if err := s.ledger.UpdateCard(r.Context(), card); err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateViews()
	writeJSON(w, http.StatusOK, toCardJSON(card))
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteCard(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	s.invalidateViews()
	w.WriteHeader(http.StatusNoContent)
}

type recurringRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	CategoryID  string `json:"category_id"`
	Person      string `json:"person"`
	Frequency   string `json:"frequency"`
	DayOfMonth  int    `json:"day_of_month"`
	MonthOfYear int    `json:"month_of_year"`
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	rt, err := s.ledger.CreateRecurring(r.Context(), core.RecurringTransaction{
		Type:        core.TransactionType(req.Type),
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
		CategoryID:  strings.TrimSpace(req.CategoryID),
		Person:      core.Person(req.Person),
		Frequency:   core.Frequency(req.Frequency),
		DayOfMonth:  req.DayOfMonth,
		MonthOfYear: req.MonthOfYear,
		Active:      true,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringJSON(rt))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	templates, err := s.ledger.ListRecurring(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]recurringJSON, len(templates))
	for i, rt := range templates {
		out[i] = toRecurringJSON(rt)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteRecurring(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type salaryRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Person string `json:"person"`
	PayDay int    `json:"pay_day"`
}

func (s *Server) handleCreateSalary(w http.ResponseWriter, r *http.Request) {
	var req salaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	salary, err := s.ledger.CreateSalary(r.Context(), core.Salary{
		Name:   strings.TrimSpace(req.Name),
		Amount: core.Money{Cents: cents},
		Person: core.Person(req.Person),
		PayDay: req.PayDay,
		Active: true,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSalaryJSON(salary))
}

func (s *Server) handleListSalaries(w http.ResponseWriter, r *http.Request) {
	salaries, err := s.ledger.ListSalaries(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]salaryJSON, len(salaries))
	for i, sal := range salaries {
		out[i] = toSalaryJSON(sal)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSalary(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteSalary(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type investmentRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Goal  string `json:"goal"`
}

func (s *Server) handleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req investmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var goal core.Money
	if strings.TrimSpace(req.Goal) != "" {
		cents, err := core.ParseDecimalToCents(req.Goal)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		goal = core.Money{Cents: cents}
	}

	inv, err := s.ledger.CreateInvestment(r.Context(), core.Investment{
		Name:  strings.TrimSpace(req.Name),
		Icon:  req.Icon,
		Color: req.Color,
		Goal:  goal,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvestmentJSON(services.InvestmentStatus{Investment: inv}))
}

func (s *Server) handleListInvestments(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.ledger.Investments(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]investmentJSON, len(statuses))
	for i, st := range statuses {
		out[i] = toInvestmentJSON(st)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteInvestment(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type movementRequest struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

func (s *Server) handleCreateInvestmentMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var date core.Date
	if strings.TrimSpace(req.Date) != "" {
		if date, err = core.ParseDate(req.Date); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	movement, err := s.ledger.RecordInvestmentMovement(r.Context(), core.InvestmentMovement{
		InvestmentID: r.PathValue("id"),
		Type:         core.MovementType(req.Type),
		Amount:       core.Money{Cents: cents},
		Date:         date,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMovementJSON(movement))
}
