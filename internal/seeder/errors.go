package seeder

import "errors"

// Sentinel errors for failed checks.
var (
	ErrUnhealthy    = errors.New("service is not healthy")
	ErrSubmission   = errors.New("participant submission failed")
	ErrOrdering     = errors.New("participants are not ordered by registration date")
	ErrMissing      = errors.New("registered participant missing from list")
	ErrGaugeTooLow  = errors.New("participants_total lower than registered count")
	ErrGaugeMissing = errors.New("participants_total not exported")
)
