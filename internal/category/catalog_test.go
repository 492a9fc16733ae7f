package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError})
}

type stubStore struct {
	defaults  []core.Category
	owned     map[string][]core.Category
	listErr   error
	createErr error
	deleted   []string
	created   []core.CategoryForm
}

func (s *stubStore) ListCategories(_ context.Context, owner string) ([]core.Category, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.owned[owner], nil
}

func (s *stubStore) ListDefaultCategories(context.Context) ([]core.Category, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.defaults, nil
}

func (s *stubStore) CreateCategory(_ context.Context, owner core.CategoryOwner, f core.CategoryForm) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, f)
	id := fmt.Sprintf("cat-%d", len(s.created))
	if owner.IsDefault() {
		s.defaults = append(s.defaults, core.Category{ID: id, Name: f.Name, Icon: f.Icon, Color: f.Color, Owner: owner})
	}
	return id, nil
}

func (s *stubStore) DeleteCategory(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestResolverFor(t *testing.T) {
	store := &stubStore{
		defaults: []core.Category{{ID: "d1", Name: "Comida"}},
		owned: map[string][]core.Category{
			"user-1": {{ID: "u1", Name: "Mascotas"}},
		},
	}

	r, err := NewCatalog(store, testLogger()).ResolverFor(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ResolverFor() error = %v", err)
	}
	cats := r.Categories()
	if len(cats) != 2 || cats[0].ID != "d1" || cats[1].ID != "u1" {
		t.Errorf("Categories() = %v, want defaults before owned", cats)
	}
}

func TestResolverFor_StoreError(t *testing.T) {
	store := &stubStore{listErr: errors.New("unavailable")}
	if _, err := NewCatalog(store, testLogger()).ResolverFor(context.Background(), "user-1"); err == nil {
		t.Fatal("ResolverFor() error = nil, want store error")
	}
}

func TestAdd(t *testing.T) {
	store := &stubStore{}
	catalog := NewCatalog(store, testLogger())

	id, err := catalog.Add(context.Background(), "user-1", core.CategoryForm{Name: "Viajes", Icon: "✈️", Color: "#0ea5e9"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if id == "" {
		t.Error("Add() returned empty id")
	}
	if len(store.created) != 1 {
		t.Fatalf("store received %d creates, want 1", len(store.created))
	}
}

func TestAdd_InvalidForm(t *testing.T) {
	store := &stubStore{}
	_, err := NewCatalog(store, testLogger()).Add(context.Background(), "user-1", core.CategoryForm{Name: ""})
	if !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("Add() error = %v, want ErrEmptyName", err)
	}
	if len(store.created) != 0 {
		t.Error("invalid form reached the store")
	}
}

func TestRemove(t *testing.T) {
	store := &stubStore{}
	catalog := NewCatalog(store, testLogger())

	err := catalog.Remove(context.Background(), core.Category{ID: "u1", Owner: core.UserOwner("user-1")})
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "u1" {
		t.Errorf("store.deleted = %v, want [u1]", store.deleted)
	}
}

func TestRemove_DefaultRefused(t *testing.T) {
	store := &stubStore{}
	err := NewCatalog(store, testLogger()).Remove(context.Background(), core.Category{ID: "d1", Owner: core.SharedOwner()})
	if !errors.Is(err, core.ErrDefaultCategory) {
		t.Fatalf("Remove() error = %v, want ErrDefaultCategory", err)
	}
	if len(store.deleted) != 0 {
		t.Error("default deletion reached the store")
	}
}

func TestBootstrap(t *testing.T) {
	store := &stubStore{}
	catalog := NewCatalog(store, testLogger())

	if err := catalog.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if len(store.defaults) != len(DefaultSet()) {
		t.Fatalf("seeded %d defaults, want %d", len(store.defaults), len(DefaultSet()))
	}

	// A second run must not duplicate the seed.
	if err := catalog.Bootstrap(context.Background()); err != nil {
		t.Fatalf("second Bootstrap() error = %v", err)
	}
	if len(store.defaults) != len(DefaultSet()) {
		t.Errorf("second run grew defaults to %d", len(store.defaults))
	}
}
