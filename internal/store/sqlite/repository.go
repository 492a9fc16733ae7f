// Package sqlite persists records in a local SQLite database. Amounts are
// stored as decimal strings to avoid floating-point drift.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"finanzas/internal/core"
	"finanzas/internal/store"
)

type Repository struct {
	db *sql.DB
}

var _ store.RecordStore = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, COALESCE(category_id, ''), amount, kind,
		       COALESCE(description, ''), date, payment_method, created_at
		FROM transactions
		WHERE owner_id = ?
		ORDER BY date DESC, created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t                     core.Transaction
			amount, date, created string
		)
		if err := rows.Scan(&t.ID, &t.Owner, &t.CategoryID, &amount, &t.Kind,
			&t.Description, &date, &t.PaymentMethod, &created); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		t.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, COALESCE(category_id, ''), amount, kind,
		       COALESCE(description, ''), date, payment_method, created_at
		FROM transactions
		WHERE id = ?`, id)

	var (
		t                     core.Transaction
		amount, date, created string
		err                   error
	)
	if err = row.Scan(&t.ID, &t.Owner, &t.CategoryID, &amount, &t.Kind,
		&t.Description, &date, &t.PaymentMethod, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, store.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return t, nil
}

func (r *Repository) CreateTransaction(ctx context.Context, owner string, f core.TransactionForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	method := f.PaymentMethod
	if method == "" {
		method = "cash"
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, category_id, amount, kind, description, date, payment_method, created_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?)`,
		id, owner, f.CategoryID, f.Amount.String(), f.Kind, f.Description,
		f.Date.String(), method, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "transactions", id)
}

func (r *Repository) ListCategories(ctx context.Context, owner string) ([]core.Category, error) {
	return r.queryCategories(ctx, `
		SELECT id, owner_id, name, icon, color
		FROM categories
		WHERE owner_id = ?`, owner)
}

func (r *Repository) ListDefaultCategories(ctx context.Context) ([]core.Category, error) {
	return r.queryCategories(ctx, `
		SELECT id, owner_id, name, icon, color
		FROM categories
		WHERE is_default = 1`)
}

func (r *Repository) queryCategories(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c       core.Category
			ownerID sql.NullString
		)
		if err := rows.Scan(&c.ID, &ownerID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if ownerID.Valid && ownerID.String != "" {
			c.Owner = core.UserOwner(ownerID.String)
		} else {
			c.Owner = core.SharedOwner()
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, owner core.CategoryOwner, f core.CategoryForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	ownerID, _ := owner.UserID()
	isDefault := 0
	if owner.IsDefault() {
		isDefault = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, icon, color, is_default)
		VALUES (?, NULLIF(?, ''), ?, ?, ?, ?)`,
		id, ownerID, f.Name, f.Icon, f.Color, isDefault)
	if err != nil {
		return "", fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "categories", id)
}

func (r *Repository) ListInvestments(ctx context.Context, owner string) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, amount, kind, date, created_at
		FROM investments
		WHERE owner_id = ?
		ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []core.Investment
	for rows.Next() {
		var (
			inv                   core.Investment
			amount, date, created string
		)
		if err := rows.Scan(&inv.ID, &inv.Owner, &inv.Name, &amount, &inv.Kind, &date, &created); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		if inv.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		if inv.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		inv.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *Repository) CreateInvestment(ctx context.Context, owner string, f core.InvestmentForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investments (id, owner_id, name, amount, kind, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, owner, f.Name, f.Amount.String(), f.Kind, f.Date.String(),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert investment: %w", err)
	}
	return id, nil
}

func (r *Repository) DeleteInvestment(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "investments", id)
}

func (r *Repository) ListServices(ctx context.Context, owner string) ([]core.RecurringService, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, amount, day_of_month, created_at
		FROM recurring_services
		WHERE owner_id = ?`, owner)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringService
	for rows.Next() {
		var (
			svc             core.RecurringService
			amount, created string
		)
		if err := rows.Scan(&svc.ID, &svc.Owner, &svc.Name, &amount, &svc.DayOfMonth, &created); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		if svc.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		svc.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, svc)
	}
	return out, rows.Err()
}

func (r *Repository) CreateService(ctx context.Context, owner string, f core.ServiceForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recurring_services (id, owner_id, name, amount, day_of_month, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, owner, f.Name, f.Amount.String(), f.DayOfMonth,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert service: %w", err)
	}
	return id, nil
}

func (r *Repository) DeleteService(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "recurring_services", id)
}

func (r *Repository) ListEvents(ctx context.Context, owner string) ([]core.CalendarEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, date, title, kind, amount, created_at
		FROM calendar_events
		WHERE owner_id = ?`, owner)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []core.CalendarEvent
	for rows.Next() {
		var (
			e                     core.CalendarEvent
			amount, date, created string
		)
		if err := rows.Scan(&e.ID, &e.Owner, &date, &e.Title, &e.Kind, &amount, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		if e.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse date %q: %w", date, err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) CreateEvent(ctx context.Context, owner string, f core.EventForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_events (id, owner_id, date, title, kind, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, owner, f.Date.String(), f.Title, f.Kind, f.Amount.String(),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "calendar_events", id)
}

func (r *Repository) GetProfile(ctx context.Context, id string) (core.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(full_name, ''), currency, updated_at
		FROM profiles
		WHERE id = ?`, id)

	var (
		p       core.Profile
		updated string
	)
	if err := row.Scan(&p.ID, &p.FullName, &p.Currency, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Profile{}, store.ErrNotFound
		}
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return p, nil
}

func (r *Repository) SaveProfile(ctx context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, currency, updated_at)
		VALUES (?, NULLIF(?, ''), ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			currency = excluded.currency,
			updated_at = excluded.updated_at`,
		p.ID, p.FullName, p.Currency, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *Repository) deleteByID(ctx context.Context, table, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
