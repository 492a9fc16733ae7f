// Package firestore persists records in Google Cloud Firestore, the
// hosted document store the dashboard was built against. Collection and
// field names follow the original schema (owner scoping via owner_id,
// dates as ISO strings, amounts as numbers).
package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	cfs "cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finanzas/internal/core"
	"finanzas/internal/store"
)

const (
	colTransactions = "transactions"
	colCategories   = "categories"
	colInvestments  = "investments"
	colServices     = "recurring_services"
	colEvents       = "calendar_events"
	colProfiles     = "profiles"
)

type Store struct {
	client *cfs.Client
}

var _ store.RecordStore = (*Store)(nil)

// New connects to Firestore. credentialsFile may be empty, in which case
// application default credentials are used.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := cfs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Document shapes, kept separate from core types so wire-field renames
// don't leak into the domain.
type (
	transactionDoc struct {
		OwnerID       string    `firestore:"owner_id"`
		CategoryID    string    `firestore:"category_id"`
		Amount        float64   `firestore:"amount"`
		Kind          string    `firestore:"type"`
		Description   string    `firestore:"description"`
		Date          string    `firestore:"date"`
		PaymentMethod string    `firestore:"payment_method"`
		CreatedAt     time.Time `firestore:"created_at"`
	}

	categoryDoc struct {
		OwnerID   string `firestore:"owner_id"`
		Name      string `firestore:"name"`
		Icon      string `firestore:"icon"`
		Color     string `firestore:"color"`
		IsDefault bool   `firestore:"is_default"`
	}

	investmentDoc struct {
		OwnerID   string    `firestore:"owner_id"`
		Name      string    `firestore:"name"`
		Amount    float64   `firestore:"amount"`
		Kind      string    `firestore:"type"`
		Date      string    `firestore:"date"`
		CreatedAt time.Time `firestore:"created_at"`
	}

	serviceDoc struct {
		OwnerID    string    `firestore:"owner_id"`
		Name       string    `firestore:"name"`
		Amount     float64   `firestore:"amount"`
		DayOfMonth int       `firestore:"day_of_month"`
		CreatedAt  time.Time `firestore:"created_at"`
	}

	eventDoc struct {
		OwnerID   string    `firestore:"owner_id"`
		Date      string    `firestore:"date"`
		Title     string    `firestore:"title"`
		Kind      string    `firestore:"type"`
		Amount    float64   `firestore:"amount"`
		CreatedAt time.Time `firestore:"created_at"`
	}

	profileDoc struct {
		FullName  string    `firestore:"full_name"`
		Currency  string    `firestore:"currency"`
		UpdatedAt time.Time `firestore:"updated_at"`
	}
)

func (s *Store) ListTransactions(ctx context.Context, owner string) ([]core.Transaction, error) {
	iter := s.client.Collection(colTransactions).
		Where("owner_id", "==", owner).
		Documents(ctx)
	defer iter.Stop()

	var out []core.Transaction
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate transactions: %w", err)
		}
		t, err := transactionFromSnap(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	// Sorted client side to keep the query free of composite indexes,
	// as the original app did.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	snap, err := s.client.Collection(colTransactions).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return core.Transaction{}, store.ErrNotFound
		}
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return transactionFromSnap(snap)
}

func transactionFromSnap(snap *cfs.DocumentSnapshot) (core.Transaction, error) {
	var doc transactionDoc
	if err := snap.DataTo(&doc); err != nil {
		return core.Transaction{}, fmt.Errorf("decode transaction %s: %w", snap.Ref.ID, err)
	}
	date, err := core.ParseDate(doc.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s date %q: %w", snap.Ref.ID, doc.Date, err)
	}
	return core.Transaction{
		ID:            snap.Ref.ID,
		Owner:         doc.OwnerID,
		CategoryID:    doc.CategoryID,
		Amount:        decimal.NewFromFloat(doc.Amount),
		Kind:          core.TransactionKind(doc.Kind),
		Description:   doc.Description,
		Date:          date,
		PaymentMethod: doc.PaymentMethod,
		CreatedAt:     doc.CreatedAt,
	}, nil
}

func (s *Store) CreateTransaction(ctx context.Context, owner string, f core.TransactionForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	method := f.PaymentMethod
	if method == "" {
		method = "cash"
	}
	amount, _ := f.Amount.Float64()
	ref, _, err := s.client.Collection(colTransactions).Add(ctx, transactionDoc{
		OwnerID:       owner,
		CategoryID:    f.CategoryID,
		Amount:        amount,
		Kind:          string(f.Kind),
		Description:   f.Description,
		Date:          f.Date.String(),
		PaymentMethod: method,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("add transaction: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, colTransactions, id)
}

func (s *Store) ListCategories(ctx context.Context, owner string) ([]core.Category, error) {
	return s.queryCategories(ctx, s.client.Collection(colCategories).Where("owner_id", "==", owner))
}

func (s *Store) ListDefaultCategories(ctx context.Context) ([]core.Category, error) {
	return s.queryCategories(ctx, s.client.Collection(colCategories).Where("is_default", "==", true))
}

func (s *Store) queryCategories(ctx context.Context, q cfs.Query) ([]core.Category, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []core.Category
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate categories: %w", err)
		}
		var doc categoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode category %s: %w", snap.Ref.ID, err)
		}
		owner := core.SharedOwner()
		if !doc.IsDefault && doc.OwnerID != "" {
			owner = core.UserOwner(doc.OwnerID)
		}
		out = append(out, core.Category{
			ID:    snap.Ref.ID,
			Owner: owner,
			Name:  doc.Name,
			Icon:  doc.Icon,
			Color: doc.Color,
		})
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, owner core.CategoryOwner, f core.CategoryForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	ownerID, _ := owner.UserID()
	ref, _, err := s.client.Collection(colCategories).Add(ctx, categoryDoc{
		OwnerID:   ownerID,
		Name:      f.Name,
		Icon:      f.Icon,
		Color:     f.Color,
		IsDefault: owner.IsDefault(),
	})
	if err != nil {
		return "", fmt.Errorf("add category: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, colCategories, id)
}

func (s *Store) ListInvestments(ctx context.Context, owner string) ([]core.Investment, error) {
	iter := s.client.Collection(colInvestments).
		Where("owner_id", "==", owner).
		OrderBy("created_at", cfs.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []core.Investment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate investments: %w", err)
		}
		var doc investmentDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode investment %s: %w", snap.Ref.ID, err)
		}
		date, err := core.ParseDate(doc.Date)
		if err != nil {
			return nil, fmt.Errorf("investment %s date %q: %w", snap.Ref.ID, doc.Date, err)
		}
		out = append(out, core.Investment{
			ID:        snap.Ref.ID,
			Owner:     doc.OwnerID,
			Name:      doc.Name,
			Amount:    decimal.NewFromFloat(doc.Amount),
			Kind:      core.InvestmentKind(doc.Kind),
			Date:      date,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) CreateInvestment(ctx context.Context, owner string, f core.InvestmentForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	amount, _ := f.Amount.Float64()
	ref, _, err := s.client.Collection(colInvestments).Add(ctx, investmentDoc{
		OwnerID:   owner,
		Name:      f.Name,
		Amount:    amount,
		Kind:      string(f.Kind),
		Date:      f.Date.String(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("add investment: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) DeleteInvestment(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, colInvestments, id)
}

func (s *Store) ListServices(ctx context.Context, owner string) ([]core.RecurringService, error) {
	iter := s.client.Collection(colServices).
		Where("owner_id", "==", owner).
		Documents(ctx)
	defer iter.Stop()

	var out []core.RecurringService
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate services: %w", err)
		}
		var doc serviceDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode service %s: %w", snap.Ref.ID, err)
		}
		out = append(out, core.RecurringService{
			ID:         snap.Ref.ID,
			Owner:      doc.OwnerID,
			Name:       doc.Name,
			Amount:     decimal.NewFromFloat(doc.Amount),
			DayOfMonth: doc.DayOfMonth,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) CreateService(ctx context.Context, owner string, f core.ServiceForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	amount, _ := f.Amount.Float64()
	ref, _, err := s.client.Collection(colServices).Add(ctx, serviceDoc{
		OwnerID:    owner,
		Name:       f.Name,
		Amount:     amount,
		DayOfMonth: f.DayOfMonth,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("add service: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) DeleteService(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, colServices, id)
}

func (s *Store) ListEvents(ctx context.Context, owner string) ([]core.CalendarEvent, error) {
	iter := s.client.Collection(colEvents).
		Where("owner_id", "==", owner).
		Documents(ctx)
	defer iter.Stop()

	var out []core.CalendarEvent
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate events: %w", err)
		}
		var doc eventDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", snap.Ref.ID, err)
		}
		date, err := core.ParseDate(doc.Date)
		if err != nil {
			return nil, fmt.Errorf("event %s date %q: %w", snap.Ref.ID, doc.Date, err)
		}
		out = append(out, core.CalendarEvent{
			ID:        snap.Ref.ID,
			Owner:     doc.OwnerID,
			Date:      date,
			Title:     doc.Title,
			Kind:      core.EventKind(doc.Kind),
			Amount:    decimal.NewFromFloat(doc.Amount),
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) CreateEvent(ctx context.Context, owner string, f core.EventForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	amount, _ := f.Amount.Float64()
	ref, _, err := s.client.Collection(colEvents).Add(ctx, eventDoc{
		OwnerID:   owner,
		Date:      f.Date.String(),
		Title:     f.Title,
		Kind:      string(f.Kind),
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("add event: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, colEvents, id)
}

func (s *Store) GetProfile(ctx context.Context, id string) (core.Profile, error) {
	snap, err := s.client.Collection(colProfiles).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return core.Profile{}, store.ErrNotFound
		}
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	var doc profileDoc
	if err := snap.DataTo(&doc); err != nil {
		return core.Profile{}, fmt.Errorf("decode profile %s: %w", id, err)
	}
	return core.Profile{
		ID:        id,
		FullName:  doc.FullName,
		Currency:  core.Currency(doc.Currency),
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *Store) SaveProfile(ctx context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.client.Collection(colProfiles).Doc(p.ID).Set(ctx, profileDoc{
		FullName:  p.FullName,
		Currency:  string(p.Currency),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Store) deleteDoc(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}
