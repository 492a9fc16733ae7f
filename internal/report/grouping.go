package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

// DateGroup is one calendar day's worth of transactions.
type DateGroup struct {
	Date         core.Date          `json:"date"`
	Transactions []core.Transaction `json:"transactions"`
}

// GroupByDate partitions transactions by calendar date. Groups are ordered
// by date descending; within a group the input order is preserved. Every
// input transaction lands in exactly one group.
func GroupByDate(txs []core.Transaction) []DateGroup {
	index := make(map[string]int)
	groups := make([]DateGroup, 0)
	for _, tx := range txs {
		key := tx.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Date: tx.Date})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Date.After(groups[j].Date.Time)
	})
	return groups
}

// GroupByAccount partitions transactions by payment method. Every account
// named in accounts appears in the result even when it has no
// transactions; methods found only in the data are appended as well.
func GroupByAccount(txs []core.Transaction, accounts []string) map[string][]core.Transaction {
	groups := make(map[string][]core.Transaction, len(accounts))
	for _, a := range accounts {
		groups[a] = []core.Transaction{}
	}
	for _, tx := range txs {
		groups[tx.PaymentMethod] = append(groups[tx.PaymentMethod], tx)
	}
	return groups
}

// AccountTransactions filters to a single payment method, preserving order.
func AccountTransactions(txs []core.Transaction, method string) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.PaymentMethod == method {
			out = append(out, tx)
		}
	}
	return out
}

// DayTotal is the net signed total (income minus expense) for one
// calendar date.
func DayTotal(txs []core.Transaction, date core.Date) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if !tx.Date.Equal(date.Time) {
			continue
		}
		if tx.Kind == core.Expense {
			total = total.Sub(tx.Amount)
		} else {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// SortServicesByDay returns recurring services ordered by day of month.
// The input slice is not modified.
func SortServicesByDay(services []core.RecurringService) []core.RecurringService {
	out := append([]core.RecurringService(nil), services...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DayOfMonth < out[j].DayOfMonth
	})
	return out
}

// InvestmentsTotal sums investment amounts, the portfolio's market value.
func InvestmentsTotal(investments []core.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.Amount)
	}
	return total
}

// EventsByDate indexes calendar events by their ISO date string.
func EventsByDate(events []core.CalendarEvent) map[string][]core.CalendarEvent {
	byDate := make(map[string][]core.CalendarEvent)
	for _, e := range events {
		key := e.Date.String()
		byDate[key] = append(byDate[key], e)
	}
	return byDate
}
