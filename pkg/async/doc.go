// Package async provides safe detached-task execution.
//
// The navigation guard fires reference-cache reloads and recent-item writes
// without blocking the navigation continuation. SafeGo is the single way to
// spawn those tasks: it detaches from the request context, enforces a
// timeout, and recovers panics so a broken side effect never takes down a
// navigation.
package async
