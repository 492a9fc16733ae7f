// Package store defines the record-store ports the aggregation layer sits
// on top of. Adapters persist five record kinds scoped by owning user and
// assign ids and creation timestamps on create.
package store

import (
	"context"
	"errors"

	"finanzas/internal/core"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

type (
	TransactionStore interface {
		// ListTransactions returns the owner's transactions sorted by
		// date descending.
		ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		CreateTransaction(ctx context.Context, owner string, f core.TransactionForm) (string, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context, owner string) ([]core.Category, error)
		ListDefaultCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, owner core.CategoryOwner, f core.CategoryForm) (string, error)
		DeleteCategory(ctx context.Context, id string) error
	}

	InvestmentStore interface {
		// ListInvestments returns the owner's investments, most recently
		// created first.
		ListInvestments(ctx context.Context, owner string) ([]core.Investment, error)
		CreateInvestment(ctx context.Context, owner string, f core.InvestmentForm) (string, error)
		DeleteInvestment(ctx context.Context, id string) error
	}

	ServiceStore interface {
		ListServices(ctx context.Context, owner string) ([]core.RecurringService, error)
		CreateService(ctx context.Context, owner string, f core.ServiceForm) (string, error)
		DeleteService(ctx context.Context, id string) error
	}

	EventStore interface {
		ListEvents(ctx context.Context, owner string) ([]core.CalendarEvent, error)
		CreateEvent(ctx context.Context, owner string, f core.EventForm) (string, error)
		DeleteEvent(ctx context.Context, id string) error
	}

	ProfileStore interface {
		// GetProfile returns ErrNotFound for users without a profile yet.
		GetProfile(ctx context.Context, id string) (core.Profile, error)
		SaveProfile(ctx context.Context, p core.Profile) error
	}

	// RecordStore is the full surface a backend provides.
	RecordStore interface {
		TransactionStore
		CategoryStore
		InvestmentStore
		ServiceStore
		EventStore
		ProfileStore
	}
)
