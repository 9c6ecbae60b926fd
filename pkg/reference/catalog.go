package reference

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cloudsteer/console-core/pkg/observability"
)

// Catalog groups the per-kind stores and coordinates full reloads
type Catalog struct {
	stores    map[string]*Store
	order     []string
	allLoaded atomic.Bool
	logger    *observability.Logger
}

// NewCatalog builds a catalog from stores. Kinds must be unique.
func NewCatalog(logger *observability.Logger, stores ...*Store) (*Catalog, error) {
	c := &Catalog{
		stores: make(map[string]*Store, len(stores)),
		logger: logger,
	}
	for _, s := range stores {
		if _, exists := c.stores[s.Kind()]; exists {
			return nil, fmt.Errorf("duplicate reference kind %q", s.Kind())
		}
		c.stores[s.Kind()] = s
		c.order = append(c.order, s.Kind())
	}
	return c, nil
}

// Store returns the store for a kind
func (c *Catalog) Store(kind string) (*Store, bool) {
	s, ok := c.stores[kind]
	return s, ok
}

// Kinds returns all kinds in registration order
func (c *Catalog) Kinds() []string {
	return append([]string(nil), c.order...)
}

// LoadAll loads every store concurrently and waits for all of them to
// settle. Individual stores swallow their own fetch errors, so LoadAll
// always runs to completion. AllLoaded is false while a pass is in
// flight and true once it settles, so consumers can tell a mid-reload
// snapshot from a settled one.
func (c *Catalog) LoadAll(ctx context.Context, opts Options) {
	c.allLoaded.Store(false)
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range c.order {
		store := c.stores[kind]
		g.Go(func() error {
			store.Load(ctx, opts)
			return nil
		})
	}
	// Stores never return errors, Wait only fences the goroutines.
	_ = g.Wait()
	c.allLoaded.Store(true)
}

// AllLoaded reports whether at least one full LoadAll pass has settled
func (c *Catalog) AllLoaded() bool {
	return c.allLoaded.Load()
}
