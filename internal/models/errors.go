package models

import "errors"

// Error taxonomy from spec §7. Every failure mode the core can raise is one
// of these, wrapped with context via fmt.Errorf("%w: ...", ErrX) so callers
// can still use errors.Is against the sentinel.
var (
	ErrUnknownContract    = errors.New("unknown contract")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrNotFound           = errors.New("not found")
	ErrJournalUnavailable = errors.New("journal unavailable")
)
