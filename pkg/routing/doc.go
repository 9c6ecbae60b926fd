// Package routing owns the console's route table: static access metadata per
// route and the admin/workspace pairing.
//
// Admin-mode equivalents are resolved through an explicit bidirectional
// mapping built once at registry construction, not by string concatenation at
// navigation time. A route named "admin.<name>" is paired with "<name>" when
// both exist.
package routing
