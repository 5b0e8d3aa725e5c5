package scoring

import "errors"

var (
	ErrMissingBaseline    = errors.New("scoring: baseline features required for adjusted scoring")
	ErrNoParticipants     = errors.New("scoring: no participants to score")
	ErrMinimumPlayers     = errors.New("scoring: fewer than the minimum required players")
	ErrInvalidPrizePool   = errors.New("scoring: prize pool must be positive")
	ErrInvalidPlatformFee = errors.New("scoring: platform fee percentage must be in [0, 100)")
	ErrEmptyGuesses       = errors.New("scoring: no guesses to rank")
)
