package http

import (
	"nossosgastos/internal/core"
	"nossosgastos/internal/services"
)

// Wire representations. Core types stay JSON-free; the API shapes live
// here.

type transactionJSON struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	Description        string    `json:"description"`
	AmountCents        int64     `json:"amount_cents"`
	CategoryID         string    `json:"category_id"`
	StatementDate      core.Date `json:"statement_date"`
	Person             string    `json:"person"`
	CardID             string    `json:"card_id,omitempty"`
	IsInstallment      bool      `json:"is_installment,omitempty"`
	InstallmentCurrent int       `json:"installment_current,omitempty"`
	InstallmentTotal   int       `json:"installment_total,omitempty"`
	InstallmentGroupID string    `json:"installment_group_id,omitempty"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:                 t.ID,
		Type:               string(t.Type),
		Description:        t.Description,
		AmountCents:        t.Amount.Cents,
		CategoryID:         t.CategoryID,
		StatementDate:      t.StatementDate,
		Person:             string(t.Person),
		CardID:             t.CardID,
		IsInstallment:      t.IsInstallment,
		InstallmentCurrent: t.InstallmentCurrent,
		InstallmentTotal:   t.InstallmentTotal,
		InstallmentGroupID: t.InstallmentGroupID,
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, len(txs))
	for i, t := range txs {
		out[i] = toTransactionJSON(t)
	}
	return out
}

type cardJSON struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Color           string `json:"color"`
	ClosingDay      int    `json:"closing_day"`
	DueDay          int    `json:"due_day"`
	BestPurchaseDay int    `json:"best_purchase_day,omitempty"`
}

func toCardJSON(c core.Card) cardJSON {
	return cardJSON{
		ID:              c.ID,
		Name:            c.Name,
		Color:           c.Color,
		ClosingDay:      c.ClosingDay,
		DueDay:          c.DueDay,
		BestPurchaseDay: c.BestPurchaseDay,
	}
}

type billingJSON struct {
	BillingMonth    int       `json:"billing_month"`
	BillingYear     int       `json:"billing_year"`
	BillingDate     core.Date `json:"billing_date"`
	IsBestDay       bool      `json:"is_best_day"`
	GoesToNextMonth bool      `json:"goes_to_next_month"`
}

type planJSON struct {
	GroupID      string           `json:"group_id"`
	Description  string           `json:"description"`
	CategoryID   string           `json:"category_id"`
	Person       string           `json:"person"`
	CardID       string           `json:"card_id,omitempty"`
	AmountCents  int64            `json:"amount_cents"`
	Total        int              `json:"total"`
	Paid         int              `json:"paid"`
	Next         *transactionJSON `json:"next,omitempty"`
	Installments []transactionJSON `json:"installments"`
}

func toPlanJSON(p core.InstallmentPlan) planJSON {
	out := planJSON{
		GroupID:      p.GroupID,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		Person:       string(p.Person),
		CardID:       p.CardID,
		AmountCents:  p.Amount.Cents,
		Total:        p.Total,
		Paid:         p.Paid,
		Installments: toTransactionListJSON(p.Installments),
	}
	if p.Next != nil {
		next := toTransactionJSON(*p.Next)
		out.Next = &next
	}
	return out
}

type cardInvoiceJSON struct {
	CardID       string            `json:"card_id"`
	CardName     string            `json:"card_name"`
	CardColor    string            `json:"card_color"`
	TotalCents   int64             `json:"total_cents"`
	Installments []transactionJSON `json:"installments"`
	AVista       []transactionJSON `json:"a_vista"`
}

type invoiceJSON struct {
	Month      string            `json:"month"`
	Year       int               `json:"year"`
	TotalCents int64             `json:"total_cents"`
	Cards      []cardInvoiceJSON `json:"cards"`
}

func toInvoiceJSON(inv core.MonthlyInvoice) invoiceJSON {
	cards := make([]cardInvoiceJSON, len(inv.Cards))
	for i, c := range inv.Cards {
		cards[i] = cardInvoiceJSON{
			CardID:       c.CardID,
			CardName:     c.CardName,
			CardColor:    c.CardColor,
			TotalCents:   c.Total.Cents,
			Installments: toTransactionListJSON(c.Installments),
			AVista:       toTransactionListJSON(c.AVista),
		}
	}
	return invoiceJSON{
		Month:      inv.Month,
		Year:       inv.Year,
		TotalCents: inv.Total.Cents,
		Cards:      cards,
	}
}

type summaryJSON struct {
	TotalIncomeCents     int64             `json:"total_income_cents"`
	TotalExpensesCents   int64             `json:"total_expenses_cents"`
	BalanceCents         int64             `json:"balance_cents"`
	UpcomingInstallments []transactionJSON `json:"upcoming_installments"`
}

type recurringJSON struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	CategoryID  string `json:"category_id"`
	Person      string `json:"person"`
	Frequency   string `json:"frequency"`
	DayOfMonth  int    `json:"day_of_month"`
	MonthOfYear int    `json:"month_of_year,omitempty"`
	Active      bool   `json:"active"`
}

func toRecurringJSON(rt core.RecurringTransaction) recurringJSON {
	return recurringJSON{
		ID:          rt.ID,
		Type:        string(rt.Type),
		Description: rt.Description,
		AmountCents: rt.Amount.Cents,
		CategoryID:  rt.CategoryID,
		Person:      string(rt.Person),
		Frequency:   string(rt.Frequency),
		DayOfMonth:  rt.DayOfMonth,
		MonthOfYear: rt.MonthOfYear,
		Active:      rt.Active,
	}
}

type salaryJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Person      string `json:"person"`
	PayDay      int    `json:"pay_day"`
	Active      bool   `json:"active"`
}

func toSalaryJSON(s core.Salary) salaryJSON {
	return salaryJSON{
		ID:          s.ID,
		Name:        s.Name,
		AmountCents: s.Amount.Cents,
		Person:      string(s.Person),
		PayDay:      s.PayDay,
		Active:      s.Active,
	}
}

type investmentJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
	GoalCents    int64  `json:"goal_cents,omitempty"`
	BalanceCents int64  `json:"balance_cents"`
}

func toInvestmentJSON(st services.InvestmentStatus) investmentJSON {
	return investmentJSON{
		ID:           st.Investment.ID,
		Name:         st.Investment.Name,
		Icon:         st.Investment.Icon,
		Color:        st.Investment.Color,
		GoalCents:    st.Investment.Goal.Cents,
		BalanceCents: st.Balance.Cents,
	}
}

type movementJSON struct {
	ID           string    `json:"id"`
	InvestmentID string    `json:"investment_id"`
	Type         string    `json:"type"`
	AmountCents  int64     `json:"amount_cents"`
	Date         core.Date `json:"date"`
}

func toMovementJSON(m core.InvestmentMovement) movementJSON {
	return movementJSON{
		ID:           m.ID,
		InvestmentID: m.InvestmentID,
		Type:         string(m.Type),
		AmountCents:  m.Amount.Cents,
		Date:         m.Date,
	}
}
