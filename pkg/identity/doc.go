// Package identity talks to the identity service of the API gateway.
//
// It implements the token grant exchange (refresh token + scope -> scoped
// access token + role descriptor), silent token refresh, and role lookup.
// The Granter wraps the full grant flow the navigation guard runs on scope
// changes, including the managed-role shortcuts.
//
// # Grant Flow
//
//	granter := identity.NewGranter(client, session, logger, metrics)
//	roleInfo, err := granter.Grant(ctx, identity.ScopeWorkspace, refreshToken, "ws-1")
//
// A successful grant replaces the session's access token as a side effect.
// RoleInfo is replaced wholesale on every grant, never partially mutated.
package identity
