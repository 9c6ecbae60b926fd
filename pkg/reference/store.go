package reference

import (
	"context"
	"sync"
	"time"

	"github.com/cloudsteer/console-core/pkg/observability"
)

// Item is one cached reference record
type Item struct {
	// Key is the upstream resource identifier
	Key string `json:"key"`
	// Label is the display string shown in menus and search results
	Label string `json:"label"`
	// Name is the raw resource name
	Name string `json:"name"`
	// Extra carries kind-specific display fields (icon, color, group, ...)
	Extra map[string]string `json:"extra,omitempty"`
}

// FetchFunc retrieves the full key->Item map for one kind from upstream
type FetchFunc func(ctx context.Context) (map[string]Item, error)

// Options controls how Load decides whether to hit upstream
type Options struct {
	// Force bypasses both the TTL gate and the lazy-load gate
	Force bool
	// LazyLoad skips the fetch whenever any items are already cached,
	// regardless of age
	LazyLoad bool
}

// Store is the TTL-gated cache for a single reference kind.
// Safe for concurrent use.
type Store struct {
	kind    string
	ttl     time.Duration
	fetch   FetchFunc
	logger  *observability.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu         sync.RWMutex
	items      map[string]Item
	lastLoaded time.Time
}

// NewStore creates an empty store for a reference kind
func NewStore(kind string, ttl time.Duration, fetch FetchFunc, logger *observability.Logger, metrics *observability.Metrics) *Store {
	return &Store{
		kind:    kind,
		ttl:     ttl,
		fetch:   fetch,
		logger:  logger.WithField("reference_kind", kind),
		metrics: metrics,
		now:     time.Now,
		items:   make(map[string]Item),
	}
}

// SetClock overrides the time source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Kind returns the reference kind this store caches
func (s *Store) Kind() string {
	return s.kind
}

// Load refreshes the cache from upstream unless a gate short-circuits it.
// The load is skipped when the last successful load is younger than the
// TTL, or when LazyLoad is set and anything is already cached; Force
// overrides both gates. A fetch error is logged and the previous map is
// kept, so callers never observe a partially cleared cache.
func (s *Store) Load(ctx context.Context, opts Options) {
	s.mu.RLock()
	calledAt := s.now()
	skipReason := ""
	if opts.LazyLoad && len(s.items) > 0 {
		skipReason = "lazy_load"
	} else if !s.lastLoaded.IsZero() && calledAt.Sub(s.lastLoaded) < s.ttl {
		skipReason = "ttl"
	}
	s.mu.RUnlock()

	if skipReason != "" && !opts.Force {
		s.metrics.ReferenceSkipsTotal.WithLabelValues(s.kind, skipReason).Inc()
		return
	}

	fetched, err := s.fetch(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Reference fetch failed, keeping cached items")
		s.metrics.ReferenceLoadsTotal.WithLabelValues(s.kind, "failure").Inc()
		return
	}

	s.mu.Lock()
	s.items = fetched
	s.lastLoaded = calledAt
	s.mu.Unlock()

	s.metrics.ReferenceLoadsTotal.WithLabelValues(s.kind, "success").Inc()
	s.metrics.ReferenceItems.WithLabelValues(s.kind).Set(float64(len(fetched)))
}

// Sync upserts a single item without touching the load timestamp.
// Used when the caller just created or renamed a resource and wants the
// cache coherent before the next full load.
func (s *Store) Sync(item Item) {
	if item.Key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]Item)
	}
	s.items[item.Key] = item
}

// Get returns the cached item for a key
func (s *Store) Get(key string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	return item, ok
}

// Map returns a snapshot copy of the cached items
func (s *Store) Map() map[string]Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Item, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}

// Len returns the number of cached items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
