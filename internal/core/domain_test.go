package core

import (
	"errors"
	"testing"
)

func TestCardValidate(t *testing.T) {
	good := Card{ID: "c1", Name: "Nubank", Color: "#820ad1", ClosingDay: 26, DueDay: 5}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	withBest := good
	withBest.BestPurchaseDay = 27
	if err := withBest.Validate(); err != nil {
		t.Fatalf("expected ok with best day, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Card)
		want   error
	}{
		{"empty name", func(c *Card) { c.Name = " " }, ErrEmptyName},
		{"closing day zero", func(c *Card) { c.ClosingDay = 0 }, ErrInvalidDay},
		{"closing day too big", func(c *Card) { c.ClosingDay = 32 }, ErrInvalidDay},
		{"due day negative", func(c *Card) { c.DueDay = -1 }, ErrInvalidDay},
		{"best day out of range", func(c *Card) { c.BestPurchaseDay = 40 }, ErrInvalidDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	good := RecurringTransaction{
		ID:          "r1",
		Type:        Expense,
		Description: "Aluguel",
		Amount:      Money{Cents: 250000},
		CategoryID:  "casa",
		Person:      PersonNos,
		Frequency:   Monthly,
		DayOfMonth:  5,
		Active:      true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	yearly := good
	yearly.Frequency = Yearly
	yearly.MonthOfYear = 3
	if err := yearly.Validate(); err != nil {
		t.Fatalf("expected ok for yearly, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RecurringTransaction)
		want   error
	}{
		{"bad frequency", func(r *RecurringTransaction) { r.Frequency = "weekly" }, ErrInvalidFrequency},
		{"monthly with month", func(r *RecurringTransaction) { r.MonthOfYear = 3 }, ErrInvalidMonth},
		{"yearly without month", func(r *RecurringTransaction) { r.Frequency = Yearly }, ErrInvalidMonth},
		{"day out of range", func(r *RecurringTransaction) { r.DayOfMonth = 0 }, ErrInvalidDay},
		{"no description", func(r *RecurringTransaction) { r.Description = "" }, ErrEmptyDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := good
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSalaryValidate(t *testing.T) {
	good := Salary{ID: "s1", Name: "Salário dela", Amount: Money{Cents: 700000}, Person: PersonEla, PayDay: 5, Active: true}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.PayDay = 35
	if err := bad.Validate(); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("error = %v, want ErrInvalidDay", err)
	}
}
