// Package common defines sentinel errors shared by the store, service and
// command layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store failures translated from driver-specific codes.
	ErrConflict            = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrTransient           = errors.New("transient store failure")

	// Validation errors, reported before any store access.
	ErrInvalidAddress  = errors.New("invalid wallet address")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidChain    = errors.New("invalid chain id")

	// Identity errors.
	ErrUsernameTaken = errors.New("username already taken")

	// Catalog errors.
	ErrInvalidCatalog = errors.New("invalid feed catalog")
)
