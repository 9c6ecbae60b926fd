package favorite

import (
	"github.com/cloudsteer/console-core/pkg/reference"
)

// Favorite item types
const (
	TypeCollector        = "collector"
	TypeCloudServiceType = "cloudServiceType"
	TypeServiceAccount   = "serviceAccount"
	TypeCostAnalysis     = "costAnalysis"
	TypeDashboard        = "dashboard"
	TypeProject          = "project"
)

// referenceKindByType maps favorite item types onto the reference
// kinds that can resolve their labels.
var referenceKindByType = map[string]string{
	TypeCollector:        reference.KindCollector,
	TypeCloudServiceType: reference.KindCloudServiceType,
	TypeServiceAccount:   reference.KindServiceAccount,
}

// Config is a stored favorite, the shape persisted per user
type Config struct {
	ItemType    string `json:"item_type"`
	ItemID      string `json:"item_id"`
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// Record is a favorite resolved for display
type Record struct {
	ItemType     string `json:"item_type"`
	ItemID       string `json:"item_id"`
	WorkspaceID  string `json:"workspace_id,omitempty"`
	Label        string `json:"label"`
	DataSourceID string `json:"data_source_id,omitempty"`
}

// Converter resolves favorite configs against the reference cache
type Converter struct {
	catalog *reference.Catalog
}

// NewConverter creates a converter backed by the reference catalog
func NewConverter(catalog *reference.Catalog) *Converter {
	return &Converter{catalog: catalog}
}

// Convert resolves stored configs into display records, preserving
// order. Reference-backed favorites whose resource no longer exists in
// the cache are dropped; types without a reference kind keep the item
// id as the label.
func (c *Converter) Convert(configs []Config) []Record {
	records := make([]Record, 0, len(configs))
	for _, cfg := range configs {
		if cfg.ItemType == "" || cfg.ItemID == "" {
			continue
		}
		record, ok := c.resolve(cfg)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records
}

func (c *Converter) resolve(cfg Config) (Record, bool) {
	record := Record{
		ItemType:    cfg.ItemType,
		ItemID:      cfg.ItemID,
		WorkspaceID: cfg.WorkspaceID,
		Label:       cfg.ItemID,
	}

	if cfg.ItemType == TypeCostAnalysis {
		if dataSourceID, costQuerySetID, ok := ParseManagedCostQuerySetKey(cfg.ItemID); ok {
			record.DataSourceID = dataSourceID
			record.Label = costQuerySetID
		}
		return record, true
	}

	kind, ok := referenceKindByType[cfg.ItemType]
	if !ok {
		return record, true
	}
	store, ok := c.catalog.Store(kind)
	if !ok {
		return Record{}, false
	}
	item, ok := store.Get(cfg.ItemID)
	if !ok {
		// Resource was deleted upstream, drop the favorite.
		return Record{}, false
	}
	record.Label = item.Label
	return record, true
}
