package core

import "sort"

// invoiceHorizon is how many statement months the projection covers,
// counting the current month.
const invoiceHorizon = 6

// CardInvoice is one card's share of a monthly statement, split into
// installment and lump-sum ("à vista") items.
type CardInvoice struct {
	CardID       string
	CardName     string
	CardColor    string
	Total        Money
	Installments []Transaction
	AVista       []Transaction
}

// MonthlyInvoice is the projected card spending for one statement month.
type MonthlyInvoice struct {
	Month string // YYYY-MM key
	Year  int
	Total Money
	Cards []CardInvoice
}

// AggregateInvoices buckets card expenses into the next six statement
// months, starting at today's month. Transaction statement dates already
// carry the billing month, so the bucket key comes straight off the date.
// Expenses referencing a card that is no longer registered are silently
// excluded. The result always has exactly six entries in chronological
// order, empty months included.
func AggregateInvoices(txs []Transaction, cards []Card, today Date) []MonthlyInvoice {
	byID := make(map[string]Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	invoices := make([]MonthlyInvoice, invoiceHorizon)
	index := make(map[string]*MonthlyInvoice, invoiceHorizon)
	for i := range invoices {
		month := today.Month() + i
		year := today.Year()
		for month > 12 {
			month -= 12
			year++
		}
		invoices[i] = MonthlyInvoice{Month: MonthKey(year, month), Year: year}
		index[invoices[i].Month] = &invoices[i]
	}

	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		card, registered := byID[t.CardID]
		if !registered {
			continue
		}
		invoice, inWindow := index[t.StatementDate.MonthKey()]
		if !inWindow {
			continue
		}

		entry := findCardInvoice(invoice, card)
		entry.Total = entry.Total.Add(t.Amount)
		if t.IsInstallment {
			entry.Installments = append(entry.Installments, t)
		} else {
			entry.AVista = append(entry.AVista, t)
		}
		invoice.Total = invoice.Total.Add(t.Amount)
	}

	for i := range invoices {
		for j := range invoices[i].Cards {
			entry := &invoices[i].Cards[j]
			sortByDate(entry.Installments)
			sortByDate(entry.AVista)
		}
		// Biggest invoice first; ties keep first-seen order.
		sort.SliceStable(invoices[i].Cards, func(a, b int) bool {
			return invoices[i].Cards[a].Total.Cents > invoices[i].Cards[b].Total.Cents
		})
	}
	return invoices
}

func findCardInvoice(invoice *MonthlyInvoice, card Card) *CardInvoice {
	for i := range invoice.Cards {
		if invoice.Cards[i].CardID == card.ID {
			return &invoice.Cards[i]
		}
	}
	invoice.Cards = append(invoice.Cards, CardInvoice{
		CardID:    card.ID,
		CardName:  card.Name,
		CardColor: card.Color,
	})
	return &invoice.Cards[len(invoice.Cards)-1]
}

func sortByDate(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].StatementDate.Before(txs[j].StatementDate.Time)
	})
}
