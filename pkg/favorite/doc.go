// Package favorite converts stored favorite configs into display
// records by joining them against the reference cache. Favorites whose
// backing resource has disappeared are dropped rather than rendered
// with a dangling id.
package favorite
