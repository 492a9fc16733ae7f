package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
	"finanzas/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	form := core.TransactionForm{
		Amount:      decimal.RequireFromString("123.45"),
		Kind:        core.Expense,
		Description: "supermercado",
		Date:        mustDate(t, "2024-01-05"),
	}
	id, err := repo.CreateTransaction(ctx, "user-1", form)
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("GetTransaction() error = %v", err)
	}
	if !got.Amount.Equal(form.Amount) {
		t.Errorf("Amount = %s, want %s", got.Amount, form.Amount)
	}
	if got.Date.String() != "2024-01-05" || got.Description != "supermercado" {
		t.Errorf("GetTransaction() = %+v", got)
	}
	if got.PaymentMethod != "cash" {
		t.Errorf("PaymentMethod = %q, want cash default", got.PaymentMethod)
	}
	if got.CategoryID != "" {
		t.Errorf("CategoryID = %q, want empty for NULL column", got.CategoryID)
	}

	if err := repo.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if _, err := repo.GetTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetTransaction() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteTransaction() error = %v, want ErrNotFound", err)
	}
}

func TestListTransactionsOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	days := []string{"2024-01-03", "2024-01-10", "2024-01-05"}
	for _, day := range days {
		_, err := repo.CreateTransaction(ctx, "user-1", core.TransactionForm{
			Amount: decimal.NewFromInt(10),
			Kind:   core.Expense,
			Date:   mustDate(t, day),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if _, err := repo.CreateTransaction(ctx, "someone-else", core.TransactionForm{
		Amount: decimal.NewFromInt(99),
		Kind:   core.Income,
		Date:   mustDate(t, "2024-01-04"),
	}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListTransactions(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3 owner-scoped rows", len(got))
	}
	want := []string{"2024-01-10", "2024-01-05", "2024-01-03"}
	for i, w := range want {
		if got[i].Date.String() != w {
			t.Errorf("got[%d].Date = %s, want %s", i, got[i].Date, w)
		}
	}
}

func TestCategoryOwnerMapping(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sharedID, err := repo.CreateCategory(ctx, core.SharedOwner(), core.CategoryForm{Name: "Comida", Icon: "🍔", Color: "#f97316"})
	if err != nil {
		t.Fatal(err)
	}
	ownedID, err := repo.CreateCategory(ctx, core.UserOwner("user-1"), core.CategoryForm{Name: "Mascotas", Icon: "🐕", Color: "#10b981"})
	if err != nil {
		t.Fatal(err)
	}

	defaults, err := repo.ListDefaultCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(defaults) != 1 || defaults[0].ID != sharedID || !defaults[0].IsDefault() {
		t.Errorf("ListDefaultCategories() = %+v, want the shared row with a default owner", defaults)
	}

	mine, err := repo.ListCategories(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != ownedID {
		t.Fatalf("ListCategories() = %+v", mine)
	}
	if id, ok := mine[0].Owner.UserID(); !ok || id != "user-1" {
		t.Errorf("Owner.UserID() = %q, %v; want user-1, true", id, ok)
	}
}

func TestInvestmentRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.CreateInvestment(ctx, "user-1", core.InvestmentForm{
		Name:   "CETES",
		Amount: decimal.RequireFromString("3000.50"),
		Kind:   core.OtherAsset,
		Date:   mustDate(t, "2024-01-01"),
	})
	if err != nil {
		t.Fatalf("CreateInvestment() error = %v", err)
	}

	got, err := repo.ListInvestments(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != id || !got[0].Amount.Equal(decimal.RequireFromString("3000.50")) {
		t.Errorf("ListInvestments() = %+v", got)
	}

	if err := repo.DeleteInvestment(ctx, id); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteInvestment(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteInvestment() error = %v, want ErrNotFound", err)
	}
}

func TestServiceAndEventRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	svcID, err := repo.CreateService(ctx, "user-1", core.ServiceForm{
		Name: "Internet", Amount: decimal.NewFromInt(30), DayOfMonth: 5,
	})
	if err != nil {
		t.Fatalf("CreateService() error = %v", err)
	}
	services, err := repo.ListServices(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(services) != 1 || services[0].ID != svcID || services[0].DayOfMonth != 5 {
		t.Errorf("ListServices() = %+v", services)
	}

	evtID, err := repo.CreateEvent(ctx, "user-1", core.EventForm{
		Date: mustDate(t, "2024-01-15"), Title: "Renta", Kind: core.PaymentEvent, Amount: decimal.NewFromInt(800),
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	events, err := repo.ListEvents(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].ID != evtID || events[0].Title != "Renta" {
		t.Errorf("ListEvents() = %+v", events)
	}
}

func TestProfileUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.GetProfile(ctx, "user-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetProfile() before save error = %v, want ErrNotFound", err)
	}

	if err := repo.SaveProfile(ctx, core.Profile{ID: "user-1", FullName: "Ana García", Currency: core.MXN}); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if err := repo.SaveProfile(ctx, core.Profile{ID: "user-1", FullName: "Ana G.", Currency: core.EUR}); err != nil {
		t.Fatalf("second SaveProfile() error = %v", err)
	}

	got, err := repo.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.FullName != "Ana G." || got.Currency != core.EUR {
		t.Errorf("GetProfile() = %+v, want the updated row", got)
	}
}
