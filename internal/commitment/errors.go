package commitment

import "errors"

var (
	ErrEmptyMessage    = errors.New("commitment: message is empty")
	ErrEmptySalt       = errors.New("commitment: salt is empty")
	ErrInvalidHashSize = errors.New("commitment: hash must be 64 hex characters")
	ErrMismatchedInput = errors.New("commitment: message/salt/commitment slice lengths differ")

	ErrDifficultyTooHigh = errors.New("commitment: difficulty exceeds maximum")
	ErrGenerationTimeout = errors.New("commitment: proof of work generation timed out")
	ErrNonceOverflow     = errors.New("commitment: nonce space exhausted")
)
