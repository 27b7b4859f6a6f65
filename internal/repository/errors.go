// Package repository implements data access for bookings, payments,
// rate plans and the few hotel-level reads the core needs.  Sentinel
// errors defined here let handlers map failure scenarios to HTTP
// responses without inspecting SQL details.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by a different hotel.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state.  Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")
