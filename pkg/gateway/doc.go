// Package gateway is the HTTP adapter in front of the navigation guard
// and reference caches. The console shell posts navigation attempts and
// receives proceed-or-redirect decisions; the same surface exposes the
// cached reference maps, the recent-item stream, and favorite
// conversion.
package gateway
