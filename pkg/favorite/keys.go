package favorite

import "strings"

const managedKeyPrefix = "managed"

// ManagedCostQuerySetKey builds the compound id stored for a managed
// cost query set favorite. Managed query sets share ids across data
// sources, so the data source id is folded into the key.
func ManagedCostQuerySetKey(dataSourceID, costQuerySetID string) string {
	return managedKeyPrefix + "_" + dataSourceID + "_" + costQuerySetID
}

// ParseManagedCostQuerySetKey splits a compound managed key back into
// its parts. Returns ok=false for keys that are not in managed form.
func ParseManagedCostQuerySetKey(key string) (dataSourceID, costQuerySetID string, ok bool) {
	parts := strings.SplitN(key, "_", 3)
	if len(parts) != 3 || parts[0] != managedKeyPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
