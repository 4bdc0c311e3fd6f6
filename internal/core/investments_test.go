package core

import (
	"errors"
	"testing"
)

func TestInvestmentValidate(t *testing.T) {
	tests := []struct {
		name    string
		inv     Investment
		wantErr error
	}{
		{"valid", Investment{ID: "i1", Name: "Reserva", Goal: Money{Cents: 1000000}}, nil},
		{"no goal", Investment{ID: "i2", Name: "Viagem"}, nil},
		{"empty name", Investment{ID: "i3", Name: "  "}, ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.inv.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvestmentMovementValidate(t *testing.T) {
	tests := []struct {
		name    string
		mov     InvestmentMovement
		wantErr error
	}{
		{"deposit", InvestmentMovement{Type: Deposit, Amount: Money{Cents: 5000}}, nil},
		{"withdraw", InvestmentMovement{Type: Withdraw, Amount: Money{Cents: 5000}}, nil},
		{"bad type", InvestmentMovement{Type: "transfer", Amount: Money{Cents: 5000}}, ErrInvalidMovement},
		{"zero amount", InvestmentMovement{Type: Deposit}, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mov.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvestmentBalance(t *testing.T) {
	movements := []InvestmentMovement{
		{ID: "m1", Type: Deposit, Amount: Money{Cents: 100000}},
		{ID: "m2", Type: Deposit, Amount: Money{Cents: 50000}},
		{ID: "m3", Type: Withdraw, Amount: Money{Cents: 30000}},
	}
	if got := InvestmentBalance(movements); got.Cents != 120000 {
		t.Errorf("InvestmentBalance = %d, want 120000", got.Cents)
	}
	if got := InvestmentBalance(nil); got.Cents != 0 {
		t.Errorf("InvestmentBalance(nil) = %d, want 0", got.Cents)
	}
	// The history is trusted as written; an overdrawn pot goes negative.
	overdrawn := []InvestmentMovement{
		{ID: "m4", Type: Withdraw, Amount: Money{Cents: 2500}},
	}
	if got := InvestmentBalance(overdrawn); got.Cents != -2500 {
		t.Errorf("InvestmentBalance(overdrawn) = %d, want -2500", got.Cents)
	}
}
