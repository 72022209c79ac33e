// Package repository defines the storage interfaces for the tracker
// and error types that are reused across implementations. These
// sentinel values allow higher layers such as handlers to distinguish
// between different failure scenarios. For example, ErrClientInUse
// signals that a delete cannot proceed because dependent declarations
// still reference the client, while ErrEmailExists indicates a
// registration collided with an already registered address.
package repository

import "errors"

// ErrNotFound is returned when an id does not resolve to any row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert collides with an
// existing email. Handlers should translate this into an HTTP 409
// response.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrClientInUse is returned when a client delete is blocked by
// declarations that still reference the client.
var ErrClientInUse = errors.New("client has referencing declarations")
