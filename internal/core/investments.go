package core

import (
	"errors"
	"strings"
)

const (
	Deposit  MovementType = "deposit"
	Withdraw MovementType = "withdraw"
)

var ErrInvalidMovement = errors.New("invalid movement type")

type (
	// MovementType is the direction of money into or out of an investment.
	MovementType string

	// Investment is a named savings pot (emergency fund, trip, house).
	// Goal is optional (0 = unset); the balance lives in the movement
	// history, never on the investment row itself.
	Investment struct {
		ID    string
		Name  string
		Icon  string
		Color string
		Goal  Money
	}

	// InvestmentMovement is one deposit into or withdrawal from a pot.
	InvestmentMovement struct {
		ID           string
		InvestmentID string
		Type         MovementType
		Amount       Money
		Date         Date
	}
)

func (m MovementType) Validate() error {
	switch m {
	case Deposit, Withdraw:
		return nil
	}
	return ErrInvalidMovement
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if i.Goal.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m InvestmentMovement) Validate() error {
	if err := m.Type.Validate(); err != nil {
		return err
	}
	return m.Amount.Validate()
}

// InvestmentBalance nets the movement history: deposits add, withdrawals
// subtract. Withdrawing past zero is allowed and yields a negative balance.
func InvestmentBalance(movements []InvestmentMovement) Money {
	var balance Money
	for _, m := range movements {
		switch m.Type {
		case Deposit:
			balance = balance.Add(m.Amount)
		case Withdraw:
			balance = balance.Sub(m.Amount)
		}
	}
	return balance
}
