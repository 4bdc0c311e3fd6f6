package core

import "sort"

// InstallmentPlan is the reconstructed view of one parceled purchase,
// derived from the flat ledger on every read and never persisted.
type InstallmentPlan struct {
	GroupID      string
	Description  string
	CategoryID   string
	Person       Person
	CardID       string
	Amount       Money // per-installment amount
	Total        int
	Paid         int
	Next         *Transaction // next unpaid installment, nil when fully paid
	Installments []Transaction
}

// GroupInstallments regroups installment rows by group id into
// progress-tracked plans. Installments dated on or before today count as
// paid. Plans are ordered by their next due date; fully paid plans sort
// last. A group whose size disagrees with a member's InstallmentTotal is a
// data-integrity wrinkle that is tolerated: the member's own total is
// displayed as-is.
func GroupInstallments(txs []Transaction, today Date) []InstallmentPlan {
	var order []string
	buckets := make(map[string][]Transaction)
	for _, t := range txs {
		if !t.IsInstallment || t.InstallmentGroupID == "" {
			continue
		}
		id := t.InstallmentGroupID
		if _, seen := buckets[id]; !seen {
			order = append(order, id)
		}
		buckets[id] = append(buckets[id], t)
	}

	plans := make([]InstallmentPlan, 0, len(order))
	for _, id := range order {
		group := buckets[id]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].StatementDate.Before(group[j].StatementDate.Time)
		})

		first := group[0]
		total := first.InstallmentTotal
		if total == 0 {
			total = len(group)
		}

		plan := InstallmentPlan{
			GroupID:      id,
			Description:  first.Description,
			CategoryID:   first.CategoryID,
			Person:       first.Person,
			CardID:       first.CardID,
			Amount:       first.Amount,
			Total:        total,
			Installments: group,
		}
		for i := range group {
			if group[i].StatementDate.After(today.Time) {
				if plan.Next == nil {
					plan.Next = &group[i]
				}
			} else {
				plan.Paid++
			}
		}
		plans = append(plans, plan)
	}

	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i].Next, plans[j].Next
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.StatementDate.Before(b.StatementDate.Time)
		}
	})
	return plans
}
