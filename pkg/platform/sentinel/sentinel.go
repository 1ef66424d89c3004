package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and resolvers return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: session or package record does not exist
//   - ErrConflict: optimistic update lost a race and could not be retried
//   - ErrInvalidState: entity in wrong state for the requested operation
//   - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
