package services

import "errors"

var (
	// ErrNotEligible means the referral gate is not satisfied.
	ErrNotEligible = errors.New("user is not eligible to invest")
	// ErrInvalidAmount means the monto is not one of the allowed values.
	ErrInvalidAmount = errors.New("amount is not an allowed investment monto")
	// ErrUnauthorized means a non-admin attempted an admin action.
	ErrUnauthorized = errors.New("actor is not the administrator")
	// ErrNotFound means the referenced investment does not exist or is no
	// longer pending. Settling a terminal investment fails with this rather
	// than silently succeeding.
	ErrNotFound = errors.New("pending investment not found")
)
