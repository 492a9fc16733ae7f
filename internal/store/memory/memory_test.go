package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	"finanzas/internal/store"
)

const owner = "user-1"

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func txForm(t *testing.T, amount int64, day string) core.TransactionForm {
	t.Helper()
	return core.TransactionForm{
		Amount:      decimal.NewFromInt(amount),
		Kind:        core.Expense,
		Description: "test",
		Date:        mustDate(t, day),
	}
}

func TestTransactionLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateTransaction(ctx, owner, txForm(t, 50, "2024-01-05"))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	got, err := s.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if got.Owner != owner || !got.Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("GetTransaction() = %+v", got)
	}
	if got.PaymentMethod != "cash" {
		t.Errorf("PaymentMethod = %q, want cash default", got.PaymentMethod)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	if err := s.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if _, err := s.GetTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetTransaction() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteTransaction() error = %v, want ErrNotFound", err)
	}
}

func TestListTransactions(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateTransaction(ctx, owner, txForm(t, 1, "2024-01-03")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTransaction(ctx, owner, txForm(t, 2, "2024-01-10")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTransaction(ctx, "someone-else", txForm(t, 3, "2024-01-05")); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListTransactions(ctx, owner)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2 owner-scoped transactions", len(got))
	}
	if got[0].Date.String() != "2024-01-10" || got[1].Date.String() != "2024-01-03" {
		t.Errorf("dates = %s, %s; want descending order", got[0].Date, got[1].Date)
	}
}

func TestListTransactions_EmptyIsNotNil(t *testing.T) {
	got, err := New().ListTransactions(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("ListTransactions() = %v, want empty non-nil slice", got)
	}
}

func TestCreateTransaction_Invalid(t *testing.T) {
	s := New()
	f := txForm(t, 10, "2024-01-05")
	f.Amount = decimal.NewFromInt(-5)

	if _, err := s.CreateTransaction(context.Background(), owner, f); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("CreateTransaction() error = %v, want ErrInvalidAmount", err)
	}
	if got, _ := s.ListTransactions(context.Background(), owner); len(got) != 0 {
		t.Error("invalid form was stored")
	}
}

func TestCategoryOwnership(t *testing.T) {
	s := New()
	ctx := context.Background()

	sharedID, err := s.CreateCategory(ctx, core.SharedOwner(), core.CategoryForm{Name: "Comida", Icon: "🍔", Color: "#f97316"})
	if err != nil {
		t.Fatal(err)
	}
	ownedID, err := s.CreateCategory(ctx, core.UserOwner(owner), core.CategoryForm{Name: "Mascotas", Icon: "🐕", Color: "#10b981"})
	if err != nil {
		t.Fatal(err)
	}

	defaults, err := s.ListDefaultCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(defaults) != 1 || defaults[0].ID != sharedID {
		t.Errorf("ListDefaultCategories() = %v, want only the shared category", defaults)
	}

	mine, err := s.ListCategories(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != ownedID {
		t.Errorf("ListCategories() = %v, want only the user category", mine)
	}

	if other, _ := s.ListCategories(ctx, "someone-else"); len(other) != 0 {
		t.Errorf("ListCategories() for another user = %v, want empty", other)
	}

	if err := s.DeleteCategory(ctx, ownedID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	if err := s.DeleteCategory(ctx, ownedID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteCategory() error = %v, want ErrNotFound", err)
	}
}

func TestInvestments(t *testing.T) {
	clock := mustDate(t, "2024-01-01").Time
	s := NewWithClock(func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	})
	ctx := context.Background()

	older, err := s.CreateInvestment(ctx, owner, core.InvestmentForm{
		Name: "CETES", Amount: decimal.NewFromInt(3000), Kind: core.OtherAsset, Date: mustDate(t, "2024-01-01"),
	})
	if err != nil {
		t.Fatal(err)
	}
	newer, err := s.CreateInvestment(ctx, owner, core.InvestmentForm{
		Name: "BTC", Amount: decimal.NewFromInt(500), Kind: core.Crypto, Date: mustDate(t, "2024-01-02"),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.ListInvestments(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].ID != newer || got[1].ID != older {
		t.Errorf("order = [%s %s], want newest created first", got[0].Name, got[1].Name)
	}

	if err := s.DeleteInvestment(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteInvestment(ctx, older); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteInvestment() error = %v, want ErrNotFound", err)
	}
}

func TestServices(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateService(ctx, owner, core.ServiceForm{
		Name: "Internet", Amount: decimal.NewFromInt(30), DayOfMonth: 5,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.ListServices(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Internet" || got[0].DayOfMonth != 5 {
		t.Errorf("ListServices() = %+v", got)
	}

	bad := core.ServiceForm{Name: "Luz", Amount: decimal.NewFromInt(20), DayOfMonth: 32}
	if _, err := s.CreateService(ctx, owner, bad); !errors.Is(err, core.ErrInvalidDay) {
		t.Errorf("CreateService() error = %v, want ErrInvalidDay", err)
	}

	if err := s.DeleteService(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteService(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteService() error = %v, want ErrNotFound", err)
	}
}

func TestEvents(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateEvent(ctx, owner, core.EventForm{
		Date: mustDate(t, "2024-01-15"), Title: "Renta", Kind: core.PaymentEvent, Amount: decimal.NewFromInt(800),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.ListEvents(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Renta" {
		t.Errorf("ListEvents() = %+v", got)
	}

	if _, err := s.CreateEvent(ctx, owner, core.EventForm{Date: mustDate(t, "2024-01-15"), Kind: core.NoteEvent}); !errors.Is(err, core.ErrEmptyTitle) {
		t.Errorf("CreateEvent() error = %v, want ErrEmptyTitle", err)
	}

	if err := s.DeleteEvent(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteEvent(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteEvent() error = %v, want ErrNotFound", err)
	}
}

func TestProfiles(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.GetProfile(ctx, owner); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetProfile() before save error = %v, want ErrNotFound", err)
	}

	p := core.Profile{ID: owner, FullName: "Ana García", Currency: core.MXN}
	if err := s.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	got, err := s.GetProfile(ctx, owner)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.FullName != "Ana García" || got.Currency != core.MXN {
		t.Errorf("GetProfile() = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped")
	}

	p.Currency = "GBP"
	if err := s.SaveProfile(ctx, p); !errors.Is(err, core.ErrInvalidCurrency) {
		t.Errorf("SaveProfile() error = %v, want ErrInvalidCurrency", err)
	}
}
