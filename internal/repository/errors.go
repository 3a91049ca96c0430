// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrNotFound covers both "does not exist"
// and "not visible to this caller" so that cross-user lookups never
// leak existence, while ErrInsufficientFunds signals a business-rule
// rejection that must not be retried.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist or
// belongs to another user. Handlers should translate this into an
// HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrInsufficientFunds is returned when a purchase is attempted with
// a coin balance below the item price. Handlers should translate this
// into an HTTP 409 response.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidSession is returned when a finish-step names a session
// that is absent, of the wrong kind, or already consumed.
var ErrInvalidSession = errors.New("invalid session")

// ErrSessionExpired is returned when a session outlived its TTL
// before being consumed. The caller must restart the begin/finish
// flow.
var ErrSessionExpired = errors.New("session expired")

// ErrNotOwned is returned when an equip targets a catalog item the
// user has not purchased. Handlers should translate this into an
// HTTP 409 response.
var ErrNotOwned = errors.New("item not owned")
