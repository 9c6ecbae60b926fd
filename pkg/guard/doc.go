// Package guard decides every route transition: whether navigation
// proceeds, redirects to an admin-mode equivalent, or bounces to the
// sign-out or error routes. It keeps the granted role current with the
// target route's scope and triggers reference cache reloads when the
// scope changes.
package guard
