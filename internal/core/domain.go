package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

const (
	PersonEle Person = "ele"
	PersonEla Person = "ela"
	PersonNos Person = "nos"
)

const (
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	TransactionType string

	// Person identifies who in the couple a ledger entry belongs to.
	Person string

	// Frequency is the repetition period of a recurring entry.
	Frequency string

	Money struct {
		Cents int64
	}

	// Card is a registered credit card with its billing-cycle anchors.
	// ClosingDay and DueDay are calendar days of month in [1,31]; in
	// shorter months the effective day is clamped to the month's last
	// day. BestPurchaseDay is optional (0 = unset).
	Card struct {
		ID              string
		Name            string
		Color           string
		ClosingDay      int
		DueDay          int
		BestPurchaseDay int
	}

	// Transaction is a single ledger row. StatementDate is the billing
	// date: for card purchases it is the resolved statement due date,
	// for cash entries it equals the purchase date. The raw purchase
	// date lives on the Draft and is never persisted.
	Transaction struct {
		ID                 string
		Type               TransactionType
		Description        string
		Amount             Money
		CategoryID         string
		StatementDate      Date
		Person             Person
		CardID             string
		IsInstallment      bool
		InstallmentCurrent int
		InstallmentTotal   int
		InstallmentGroupID string
	}

	// Draft is the user-entered template for a transaction before ids,
	// installment positions, and statement dates are assigned.
	Draft struct {
		Type         TransactionType
		Description  string
		Amount       Money
		CategoryID   string
		PurchaseDate Date
		Person       Person
		CardID       string
	}

	// RecurringTransaction is a template materialized into ledger rows
	// on its due day (rent, utilities, yearly taxes).
	RecurringTransaction struct {
		ID            string
		Type          TransactionType
		Description   string
		Amount        Money
		CategoryID    string
		Person        Person
		Frequency     Frequency
		DayOfMonth    int
		MonthOfYear   int // yearly entries only, 0 otherwise
		Active        bool
		LastExecution time.Time
	}

	// Salary is a monthly income source materialized on its pay day.
	Salary struct {
		ID            string
		Name          string
		Amount        Money
		Person        Person
		PayDay        int
		Active        bool
		LastExecution time.Time
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day of month")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrLongDescription  = errors.New("description too long (max 200 characters)")
	ErrEmptyCategory    = errors.New("empty category")
	ErrMissingPerson    = errors.New("missing person")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInstallmentCount = errors.New("installments require at least 2 parts")
	ErrScheduleLength   = errors.New("explicit schedule length does not match installment count")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidFrequency = errors.New("invalid frequency")
)

func (t TransactionType) Validate() error {
	switch t {
	case Expense, Income:
		return nil
	}
	return ErrInvalidType
}

func (p Person) Validate() error {
	switch p {
	case PersonEle, PersonEla, PersonNos:
		return nil
	}
	return ErrMissingPerson
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func checkDayOfMonth(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if err := checkDayOfMonth(c.ClosingDay); err != nil {
		return err
	}
	if err := checkDayOfMonth(c.DueDay); err != nil {
		return err
	}
	if c.BestPurchaseDay != 0 {
		if err := checkDayOfMonth(c.BestPurchaseDay); err != nil {
			return err
		}
	}
	return nil
}

func (d Draft) Validate() error {
	if err := d.Type.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(d.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(d.Description) > 200 {
		return ErrLongDescription
	}
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := d.PurchaseDate.Validate(); err != nil {
		return err
	}
	return d.Person.Validate()
}

func (r RecurringTransaction) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := r.Person.Validate(); err != nil {
		return err
	}
	if err := checkDayOfMonth(r.DayOfMonth); err != nil {
		return err
	}
	switch r.Frequency {
	case Monthly:
		if r.MonthOfYear != 0 {
			return ErrInvalidMonth
		}
	case Yearly:
		if r.MonthOfYear < 1 || r.MonthOfYear > 12 {
			return ErrInvalidMonth
		}
	default:
		return ErrInvalidFrequency
	}
	return nil
}

func (s Salary) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if err := s.Person.Validate(); err != nil {
		return err
	}
	return checkDayOfMonth(s.PayDay)
}
