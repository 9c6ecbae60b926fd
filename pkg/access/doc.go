// Package access computes access levels for route authorization.
//
// An AccessLevel is an integer-ordered enum; the guard proceeds when the
// user's level is at least the route's level. AdminPermission is strictest:
// only an explicit domain-admin grant satisfies it. A wildcard page-access
// entry grants every workspace menu but never implies admin scope.
//
// Page access entries arrive as strings ("*", "<menu>.*", "<menu>.<sub>")
// and are parsed once into a typed PageAccess set rather than prefix-matched
// at call sites.
package access
