// Package recent tracks the most recently visited resources.
//
// An in-memory LRU gives the session an immediate, capped
// most-recent-first view; a redis sink persists the same stream so the
// list survives gateway restarts. Sink failures are logged and never
// surface to navigation.
package recent
