// Package report derives display aggregates from in-memory record
// snapshots. Every function is pure: it never mutates its inputs, performs
// no I/O, and returns the same result for the same arguments.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/category"
	"finanzas/internal/core"
)

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
)

type (
	// Period is a named time-window selector driving the range filter.
	Period string

	// Totals holds amount sums partitioned by transaction kind.
	Totals struct {
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	// DayPoint is one entry of the trailing daily series.
	DayPoint struct {
		Label   string          `json:"label"` // 3-letter weekday
		Date    core.Date       `json:"date"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	// MonthPoint is one entry of the trailing monthly series.
	MonthPoint struct {
		Label   string          `json:"label"` // localized 3-letter month
		Year    int             `json:"year"`
		Month   time.Month      `json:"month"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	// CategorySlice is one resolved category's share of total expenses.
	CategorySlice struct {
		Name       string          `json:"name"`
		Icon       string          `json:"icon"`
		Color      string          `json:"color"`
		Amount     decimal.Decimal `json:"amount"`
		Count      int             `json:"count"`
		Percentage float64         `json:"percentage"`
	}
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return true
	}
	return false
}

// Balance is the running income minus expense total.
func (t Totals) Balance() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

func (t Totals) add(tx core.Transaction) Totals {
	if tx.Kind == core.Income {
		t.Income = t.Income.Add(tx.Amount)
	} else {
		t.Expense = t.Expense.Add(tx.Amount)
	}
	return t
}

// Sum totals the full transaction list by kind.
func Sum(txs []core.Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		t = t.add(tx)
	}
	return t
}

// MonthTotals restricts the sums to transactions dated in the reference
// instant's calendar month.
func MonthTotals(txs []core.Transaction, ref time.Time) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		if tx.Date.Year() == ref.Year() && tx.Date.Month() == ref.Month() {
			t = t.add(tx)
		}
	}
	return t
}

// FilterByPeriod restricts transactions to the window named by the period
// token, relative to now. For the custom period a missing start date means
// no filtering at all, and a missing end defaults to now. Bounds are
// inclusive on both ends.
func FilterByPeriod(txs []core.Transaction, p Period, now time.Time, customStart, customEnd core.Date) []core.Transaction {
	var start, end time.Time
	end = now

	switch p {
	case PeriodDay:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case PeriodCustom:
		if customStart.IsZero() {
			return append([]core.Transaction(nil), txs...)
		}
		start = customStart.Time
		if !customEnd.IsZero() {
			end = customEnd.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
	default:
		return append([]core.Transaction(nil), txs...)
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		at := tx.Date.Time
		if !at.Before(start) && !at.After(end) {
			out = append(out, tx)
		}
	}
	return out
}

// DailySeries computes per-day income and expense sums for the trailing
// seven calendar days including today, ordered oldest to newest.
func DailySeries(txs []core.Transaction, now time.Time) []DayPoint {
	const days = 7
	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := core.DateOf(now.AddDate(0, 0, -i))
		p := DayPoint{
			Label:   day.Format("Mon"),
			Date:    day,
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		for _, tx := range txs {
			if !tx.Date.Equal(day.Time) {
				continue
			}
			if tx.Kind == core.Income {
				p.Income = p.Income.Add(tx.Amount)
			} else {
				p.Expense = p.Expense.Add(tx.Amount)
			}
		}
		points = append(points, p)
	}
	return points
}

// Spanish month abbreviations, matching the dashboard's display locale.
var monthLabels = [...]string{
	"Ene", "Feb", "Mar", "Abr", "May", "Jun",
	"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
}

// MonthLabel returns the localized 3-letter label for a month.
func MonthLabel(m time.Month) string {
	return monthLabels[m-1]
}

// MonthlySeries partitions transactions by calendar month, sums each kind,
// and returns the most recent six months in chronological order. Months
// with no transactions do not appear.
func MonthlySeries(txs []core.Transaction) []MonthPoint {
	const months = 6

	type key struct {
		year  int
		month time.Month
	}
	sums := make(map[key]Totals)
	for _, tx := range txs {
		k := key{tx.Date.Year(), tx.Date.Month()}
		t, ok := sums[k]
		if !ok {
			t = Totals{Income: decimal.Zero, Expense: decimal.Zero}
		}
		sums[k] = t.add(tx)
	}

	keys := make([]key, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	points := make([]MonthPoint, 0, len(keys))
	for _, k := range keys {
		t := sums[k]
		points = append(points, MonthPoint{
			Label:   MonthLabel(k.month),
			Year:    k.year,
			Month:   k.month,
			Income:  t.Income,
			Expense: t.Expense,
		})
	}
	return points
}

var oneHundred = decimal.NewFromInt(100)

// ExpenseBreakdown partitions expense transactions by resolved category
// name, summing amounts and counting occurrences. Percentages are shares
// of the total expense; a zero total is substituted with 1 so empty months
// yield 0% instead of dividing by zero. Slices are ordered by amount
// descending, then by name for determinism.
func ExpenseBreakdown(txs []core.Transaction, resolver *category.Resolver) []CategorySlice {
	slices := make(map[string]*CategorySlice)
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		info := resolver.Resolve(tx.CategoryID)
		s, ok := slices[info.Name]
		if !ok {
			s = &CategorySlice{
				Name:   info.Name,
				Icon:   info.Icon,
				Color:  info.Color,
				Amount: decimal.Zero,
			}
			slices[info.Name] = s
		}
		s.Amount = s.Amount.Add(tx.Amount)
		s.Count++
		total = total.Add(tx.Amount)
	}

	denominator := total
	if denominator.IsZero() {
		denominator = decimal.NewFromInt(1)
	}

	out := make([]CategorySlice, 0, len(slices))
	for _, s := range slices {
		s.Percentage, _ = s.Amount.Div(denominator).Mul(oneHundred).Float64()
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
