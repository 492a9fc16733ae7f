// Package memory provides an in-memory record store, used as the default
// backend and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"finanzas/internal/core"
	"finanzas/internal/store"
)

type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	categories   []core.Category
	investments  []core.Investment
	services     []core.RecurringService
	events       []core.CalendarEvent
	profiles     map[string]core.Profile
	now          func() time.Time
}

var _ store.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{
		profiles: make(map[string]core.Profile),
		now:      time.Now,
	}
}

// NewWithClock fixes the creation-timestamp clock, for tests.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

func (s *Store) ListTransactions(_ context.Context, owner string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	// Date descending, matching the hosted store's query contract.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, owner string, f core.TransactionForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := core.Transaction{
		ID:            uuid.NewString(),
		Owner:         owner,
		CategoryID:    f.CategoryID,
		Amount:        f.Amount,
		Kind:          f.Kind,
		Description:   f.Description,
		Date:          f.Date,
		PaymentMethod: f.PaymentMethod,
		CreatedAt:     s.now(),
	}
	if t.PaymentMethod == "" {
		t.PaymentMethod = "cash"
	}
	s.transactions = append(s.transactions, t)
	return t.ID, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.transactions {
		if t.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context, owner string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Category, 0)
	for _, c := range s.categories {
		if id, ok := c.Owner.UserID(); ok && id == owner {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) ListDefaultCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Category, 0)
	for _, c := range s.categories {
		if c.IsDefault() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, owner core.CategoryOwner, f core.CategoryForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := core.Category{
		ID:    uuid.NewString(),
		Owner: owner,
		Name:  f.Name,
		Icon:  f.Icon,
		Color: f.Color,
	}
	s.categories = append(s.categories, c)
	return c.ID, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListInvestments(_ context.Context, owner string) ([]core.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Investment, 0)
	for _, inv := range s.investments {
		if inv.Owner == owner {
			out = append(out, inv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateInvestment(_ context.Context, owner string, f core.InvestmentForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv := core.Investment{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      f.Name,
		Amount:    f.Amount,
		Kind:      f.Kind,
		Date:      f.Date,
		CreatedAt: s.now(),
	}
	s.investments = append(s.investments, inv)
	return inv.ID, nil
}

func (s *Store) DeleteInvestment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, inv := range s.investments {
		if inv.ID == id {
			s.investments = append(s.investments[:i], s.investments[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListServices(_ context.Context, owner string) ([]core.RecurringService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.RecurringService, 0)
	for _, svc := range s.services {
		if svc.Owner == owner {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *Store) CreateService(_ context.Context, owner string, f core.ServiceForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc := core.RecurringService{
		ID:         uuid.NewString(),
		Owner:      owner,
		Name:       f.Name,
		Amount:     f.Amount,
		DayOfMonth: f.DayOfMonth,
		CreatedAt:  s.now(),
	}
	s.services = append(s.services, svc)
	return svc.ID, nil
}

func (s *Store) DeleteService(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, svc := range s.services {
		if svc.ID == id {
			s.services = append(s.services[:i], s.services[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListEvents(_ context.Context, owner string) ([]core.CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.CalendarEvent, 0)
	for _, e := range s.events {
		if e.Owner == owner {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) CreateEvent(_ context.Context, owner string, f core.EventForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := core.CalendarEvent{
		ID:        uuid.NewString(),
		Owner:     owner,
		Date:      f.Date,
		Title:     f.Title,
		Kind:      f.Kind,
		Amount:    f.Amount,
		CreatedAt: s.now(),
	}
	s.events = append(s.events, e)
	return e.ID, nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) GetProfile(_ context.Context, id string) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return core.Profile{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) SaveProfile(_ context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = s.now()
	s.profiles[p.ID] = p
	return nil
}
