// Package repository defines error values that are reused across multiple
// repositories. These sentinels let handlers distinguish failure scenarios:
// ErrForbidden means the caller is not the actor a resource belongs to,
// ErrConflict means an operation cannot proceed because of existing state
// (for example reserving a seat that is already held).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource held or owned by someone else. Handlers translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot be performed because of
// conflicting state, such as reserving an already-held seat. Handlers
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
