// Package session holds the process-wide token state for the console core.
//
// The Manager owns the access and refresh tokens. It is written only by
// sign-in, sign-out, token refresh, and role grant; the navigation guard and
// the reference cache only read it. Claims are decoded from the access token
// without signature verification: the token is minted and validated by the
// upstream identity service, and the decoded claims drive scope selection
// and display, never enforcement.
package session
