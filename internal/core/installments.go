package core

import "github.com/google/uuid"

// ScheduleOptions tunes how an installment plan is generated.
type ScheduleOptions struct {
	// Dates is an explicit list of statement dates, one per installment.
	// This is the resolver-driven path for card purchases (see
	// BillingSchedule). When empty, installment i falls at the purchase
	// date plus i months.
	Dates []Date

	// PerInstallment, when non-zero, is the user-supplied amount of each
	// installment. The implied interest is PerInstallment×n minus the
	// at-sight amount; a negative result is a discount and passes
	// through with no special handling.
	PerInstallment Money

	// Reconcile assigns the equal-split remainder to the last
	// installment so the parts sum exactly to the at-sight amount. Off
	// by default: the plain split loses up to n−1 centavos, matching
	// the historical behavior.
	Reconcile bool
}

// newID generates a process-wide-unique opaque identifier.
var newID = uuid.NewString

// GenerateInstallments produces the n ledger rows of a parceled purchase.
// All rows share a fresh opaque group id, carry positions 1..n, and copy
// every descriptive field of the base draft. No rows are produced on
// invalid input.
func GenerateInstallments(base Draft, n int, opts ScheduleOptions) ([]Transaction, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, ErrInstallmentCount
	}
	if len(opts.Dates) > 0 && len(opts.Dates) != n {
		return nil, ErrScheduleLength
	}

	groupID := newID()
	amounts := splitAmounts(base.Amount, n, opts)

	rows := make([]Transaction, n)
	for i := range rows {
		date := base.PurchaseDate.AddMonths(i)
		if len(opts.Dates) > 0 {
			date = opts.Dates[i]
		}
		rows[i] = Transaction{
			ID:                 newID(),
			Type:               base.Type,
			Description:        base.Description,
			Amount:             amounts[i],
			CategoryID:         base.CategoryID,
			StatementDate:      date,
			Person:             base.Person,
			CardID:             base.CardID,
			IsInstallment:      true,
			InstallmentCurrent: i + 1,
			InstallmentTotal:   n,
			InstallmentGroupID: groupID,
		}
	}
	return rows, nil
}

func splitAmounts(atSight Money, n int, opts ScheduleOptions) []Money {
	amounts := make([]Money, n)
	if opts.PerInstallment.Cents > 0 {
		for i := range amounts {
			amounts[i] = opts.PerInstallment
		}
		return amounts
	}
	each := atSight.Cents / int64(n)
	for i := range amounts {
		amounts[i] = Money{Cents: each}
	}
	if opts.Reconcile {
		amounts[n-1] = Money{Cents: each + atSight.Cents - each*int64(n)}
	}
	return amounts
}

// ImpliedInterest is the flat surcharge paid when a per-installment amount
// is supplied: the total of the n installments minus the at-sight amount.
// Negative means the installment plan is cheaper than paying at sight.
func ImpliedInterest(atSight, perInstallment Money, n int) Money {
	return Money{Cents: perInstallment.Cents*int64(n) - atSight.Cents}
}
