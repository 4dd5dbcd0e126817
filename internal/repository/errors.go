// Package repository implements the data-access layer over MySQL.  It
// defines the sentinel errors shared across repositories so handlers can
// translate failure scenarios into HTTP responses without ever seeing raw
// driver error codes.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an admin-only
// operation without an admin profile.  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrSlotConflict is returned when an insert collides with an existing
// active reservation for the same room and window.  Conflict detection is
// the database's job (unique key on room_id/starts_at); this sentinel is
// the translated form of the duplicate-key error.  Handlers map it to 409.
var ErrSlotConflict = errors.New("slot already booked")

// ErrInvalidStateTransition is returned when a status change is requested
// from a state that does not permit it, e.g. approving an already
// concluded reservation.  Handlers map it to 409.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrRequesterNotFound is returned when an external login identity has no
// matching requester row.  Account provisioning happens elsewhere; this
// service never creates users.  Handlers map it to 404.
var ErrRequesterNotFound = errors.New("requester not found")

// ErrNothingToClose is returned when a checklist submission resolves to
// zero eligible reservations.  Handlers map it to 404.
var ErrNothingToClose = errors.New("no reservations to conclude")
