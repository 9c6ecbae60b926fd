package recent

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cloudsteer/console-core/pkg/observability"
)

// Item is one visited resource
type Item struct {
	ItemType    string    `json:"item_type"`
	ItemID      string    `json:"item_id"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Label       string    `json:"label,omitempty"`
	VisitedAt   time.Time `json:"visited_at"`
}

func (i Item) key() string {
	return i.ItemType + "/" + i.ItemID
}

// Sink receives every recorded item for persistence
type Sink interface {
	Record(ctx context.Context, item Item) error
}

// Tracker keeps a capped most-recently-used list of visited resources.
// Revisiting an item moves it to the front instead of duplicating it.
type Tracker struct {
	cache   *lru.Cache[string, Item]
	sink    Sink
	logger  *observability.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewTracker creates a tracker capped at maxItems. sink may be nil.
func NewTracker(maxItems int, sink Sink, logger *observability.Logger, metrics *observability.Metrics) (*Tracker, error) {
	cache, err := lru.New[string, Item](maxItems)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		cache:   cache,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}, nil
}

// SetClock overrides the time source. Tests only.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Record marks a resource as just visited. The sink write is
// best-effort; a failure is logged and the in-memory list stays valid.
func (t *Tracker) Record(ctx context.Context, item Item) {
	if item.ItemType == "" || item.ItemID == "" {
		return
	}
	item.VisitedAt = t.now()
	t.cache.Add(item.key(), item)
	t.metrics.RecentItemsTotal.Inc()

	if t.sink == nil {
		return
	}
	if err := t.sink.Record(ctx, item); err != nil {
		t.logger.WithError(err).
			WithField("item_type", item.ItemType).
			Warn("Failed to persist recent item")
	}
}

// List returns the tracked items, most recent first
func (t *Tracker) List() []Item {
	keys := t.cache.Keys() // oldest first
	out := make([]Item, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if item, ok := t.cache.Peek(keys[i]); ok {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of tracked items
func (t *Tracker) Len() int {
	return t.cache.Len()
}
