package store

import "errors"

var (
	// ErrNotFound is returned when no document matches the given identifier
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when a lead identifier is not a valid object ID
	ErrInvalidID = errors.New("invalid lead id")
	// ErrClaimUnavailable is returned when a sync claim cannot be taken because
	// the lead is already synced, already claimed, or missing
	ErrClaimUnavailable = errors.New("sync claim unavailable")
)
