package category

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"finanzas/internal/core"
	"finanzas/internal/log"
)

// Store is the slice of the record store the catalog needs.
type Store interface {
	ListCategories(ctx context.Context, owner string) ([]core.Category, error)
	ListDefaultCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, owner core.CategoryOwner, f core.CategoryForm) (string, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Catalog wraps category store access with the default/user merge and the
// default-deletion guard.
type Catalog struct {
	store  Store
	logger *log.Logger
}

func NewCatalog(store Store, logger *log.Logger) *Catalog {
	return &Catalog{
		store:  store,
		logger: logger.WithComponent(log.ComponentCategory),
	}
}

// ResolverFor fetches defaults and the user's categories in parallel and
// builds a resolver over the merged list.
func (c *Catalog) ResolverFor(ctx context.Context, owner string) (*Resolver, error) {
	var defaults, owned []core.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		defaults, err = c.store.ListDefaultCategories(gctx)
		if err != nil {
			return fmt.Errorf("list default categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		owned, err = c.store.ListCategories(gctx, owner)
		if err != nil {
			return fmt.Errorf("list categories for %s: %w", owner, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewResolver(defaults, owned), nil
}

// Add creates a user-owned category.
func (c *Catalog) Add(ctx context.Context, owner string, f core.CategoryForm) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}
	id, err := c.store.CreateCategory(ctx, core.UserOwner(owner), f)
	if err != nil {
		return "", fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

// Remove deletes a user-owned category. Shared defaults are refused before
// any store call is made.
func (c *Catalog) Remove(ctx context.Context, cat core.Category) error {
	if cat.IsDefault() {
		return core.ErrDefaultCategory
	}
	if err := c.store.DeleteCategory(ctx, cat.ID); err != nil {
		return fmt.Errorf("delete category %s: %w", cat.ID, err)
	}
	return nil
}

// Bootstrap seeds the shared default categories into a store that has
// none. It is idempotent: an existing default set is left untouched.
func (c *Catalog) Bootstrap(ctx context.Context) error {
	existing, err := c.store.ListDefaultCategories(ctx)
	if err != nil {
		return fmt.Errorf("check default categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, f := range DefaultSet() {
		if _, err := c.store.CreateCategory(ctx, core.SharedOwner(), f); err != nil {
			return fmt.Errorf("seed default category %q: %w", f.Name, err)
		}
	}
	c.logger.InfoContext(ctx, "Seeded default categories", "count", len(DefaultSet()))
	return nil
}
