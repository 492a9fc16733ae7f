package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

func TestGroupByDate(t *testing.T) {
	a := tx(t, 1, core.Expense, "2024-01-05", "")
	a.Description = "first"
	b := tx(t, 2, core.Expense, "2024-01-03", "")
	c := tx(t, 3, core.Income, "2024-01-05", "")
	c.Description = "second"
	d := tx(t, 4, core.Income, "2024-01-10", "")

	groups := GroupByDate([]core.Transaction{a, b, c, d})
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}

	wantDates := []string{"2024-01-10", "2024-01-05", "2024-01-03"}
	for i, want := range wantDates {
		if got := groups[i].Date.String(); got != want {
			t.Errorf("groups[%d].Date = %s, want %s", i, got, want)
		}
	}

	jan5 := groups[1].Transactions
	if len(jan5) != 2 {
		t.Fatalf("len(jan5) = %d, want 2", len(jan5))
	}
	if jan5[0].Description != "first" || jan5[1].Description != "second" {
		t.Errorf("input order not preserved within group: %q, %q", jan5[0].Description, jan5[1].Description)
	}

	total := 0
	for _, g := range groups {
		total += len(g.Transactions)
	}
	if total != 4 {
		t.Errorf("groups contain %d transactions, want all 4", total)
	}
}

func TestGroupByDate_Empty(t *testing.T) {
	if got := GroupByDate(nil); len(got) != 0 {
		t.Errorf("GroupByDate(nil) = %v, want empty", got)
	}
}

func TestGroupByAccount(t *testing.T) {
	cash := tx(t, 1, core.Expense, "2024-01-05", "")
	cash.PaymentMethod = "cash"
	other := tx(t, 2, core.Expense, "2024-01-05", "")
	other.PaymentMethod = "paypal"

	groups := GroupByAccount([]core.Transaction{cash, other}, []string{"cash", "debit"})
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	if got := groups["debit"]; got == nil || len(got) != 0 {
		t.Errorf(`groups["debit"] = %v, want present and empty`, got)
	}
	if len(groups["cash"]) != 1 {
		t.Errorf(`len(groups["cash"]) = %d, want 1`, len(groups["cash"]))
	}
	if len(groups["paypal"]) != 1 {
		t.Errorf(`unknown method not appended: groups["paypal"] = %v`, groups["paypal"])
	}
}

func TestAccountTransactions(t *testing.T) {
	first := tx(t, 1, core.Expense, "2024-01-05", "")
	first.PaymentMethod = "credit"
	second := tx(t, 2, core.Expense, "2024-01-06", "")
	second.PaymentMethod = "cash"
	third := tx(t, 3, core.Income, "2024-01-07", "")
	third.PaymentMethod = "credit"

	got := AccountTransactions([]core.Transaction{first, second, third}, "credit")
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if !got[0].Amount.Equal(decimal.NewFromInt(1)) || !got[1].Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("order not preserved: %s, %s", got[0].Amount, got[1].Amount)
	}

	if empty := AccountTransactions([]core.Transaction{first}, "debit"); empty == nil || len(empty) != 0 {
		t.Errorf("AccountTransactions for unused method = %v, want empty non-nil", empty)
	}
}

func TestDayTotal(t *testing.T) {
	day := date(t, "2024-01-05")
	txs := []core.Transaction{
		tx(t, 100, core.Income, "2024-01-05", ""),
		tx(t, 40, core.Expense, "2024-01-05", ""),
		tx(t, 999, core.Income, "2024-01-06", ""),
	}

	if got := DayTotal(txs, day); !got.Equal(decimal.NewFromInt(60)) {
		t.Errorf("DayTotal = %s, want 60", got)
	}
	if got := DayTotal(txs, date(t, "2024-01-04")); !got.IsZero() {
		t.Errorf("DayTotal for empty day = %s, want 0", got)
	}
}

func TestSortServicesByDay(t *testing.T) {
	in := []core.RecurringService{
		{Name: "Luz", DayOfMonth: 20},
		{Name: "Internet", DayOfMonth: 5},
		{Name: "Agua", DayOfMonth: 20},
	}

	got := SortServicesByDay(in)
	wantNames := []string{"Internet", "Luz", "Agua"}
	for i, want := range wantNames {
		if got[i].Name != want {
			t.Errorf("got[%d].Name = %q, want %q", i, got[i].Name, want)
		}
	}
	if in[0].Name != "Luz" {
		t.Error("SortServicesByDay mutated its input")
	}
}

func TestInvestmentsTotal(t *testing.T) {
	invs := []core.Investment{
		{Amount: decimal.NewFromInt(3000)},
		{Amount: decimal.NewFromInt(500)},
	}
	if got := InvestmentsTotal(invs); !got.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("InvestmentsTotal = %s, want 3500", got)
	}
	if got := InvestmentsTotal(nil); !got.IsZero() {
		t.Errorf("InvestmentsTotal(nil) = %s, want 0", got)
	}
}

func TestEventsByDate(t *testing.T) {
	events := []core.CalendarEvent{
		{Title: "Renta", Date: date(t, "2024-01-15")},
		{Title: "Nota", Date: date(t, "2024-01-15")},
		{Title: "Cobro", Date: date(t, "2024-01-20")},
	}

	byDate := EventsByDate(events)
	if len(byDate) != 2 {
		t.Fatalf("len(byDate) = %d, want 2", len(byDate))
	}
	if got := byDate["2024-01-15"]; len(got) != 2 || got[0].Title != "Renta" {
		t.Errorf(`byDate["2024-01-15"] = %v, want Renta then Nota`, got)
	}
	if len(byDate["2024-01-20"]) != 1 {
		t.Errorf(`byDate["2024-01-20"] = %v, want one event`, byDate["2024-01-20"])
	}
}
