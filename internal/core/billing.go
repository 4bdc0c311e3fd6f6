package core

// BillingInfo describes which statement a card purchase lands in.
type BillingInfo struct {
	BillingMonth    int
	BillingYear     int
	BillingDate     Date
	IsBestDay       bool
	GoesToNextMonth bool
}

// ResolveBilling maps a purchase date to the card statement it belongs to.
// A nil card means a cash/debit/pix payment, where the billing concept does
// not apply; the result is nil and that is not an error.
//
// The due date is always strictly after the purchase: the base due month is
// the month immediately following the purchase month, and a purchase after
// the card's closing day misses that cycle and falls one further month out.
// A purchase exactly on the closing day still makes the sooner cycle.
func ResolveBilling(purchase Date, card *Card) *BillingInfo {
	if card == nil {
		return nil
	}

	day := purchase.Day()
	month := purchase.Month() + 1
	year := purchase.Year()
	missedClosing := day > card.ClosingDay
	if missedClosing {
		month++
	}
	for month > 12 {
		month -= 12
		year++
	}

	isBest := missedClosing
	if card.BestPurchaseDay > 0 {
		isBest = day >= card.BestPurchaseDay
	}

	return &BillingInfo{
		BillingMonth:    month,
		BillingYear:     year,
		BillingDate:     ClampedDate(year, month, card.DueDay),
		IsBestDay:       isBest,
		GoesToNextMonth: missedClosing,
	}
}

// BillingSchedule computes the statement due dates for n installments of a
// card purchase: the first is the resolved billing date, each subsequent one
// falls a month later on the card's due day (clamped in shorter months).
// Returns nil for cash purchases, where the generator falls back to plain
// month stepping from the purchase date.
func BillingSchedule(purchase Date, card *Card, n int) []Date {
	info := ResolveBilling(purchase, card)
	if info == nil {
		return nil
	}
	dates := make([]Date, n)
	for i := range dates {
		dates[i] = ClampedDate(info.BillingYear, info.BillingMonth+i, card.DueDay)
	}
	return dates
}
