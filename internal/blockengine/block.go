package blockengine

import (
	"fmt"
	"time"
)

// Block is a prediction round tagged with its current lifecycle phase S.
// S never appears in a field; it exists purely so the compiler can tell
// Block[Pending] and Block[RevealsOpen] apart and only let transition
// functions for the matching phase accept a given value.
type Block[S StateMarker] struct {
	BlockNum        string
	CreatedAt       time.Time
	Description     string
	LivestreamURL   string
	TargetTimestamp time.Time
	PrizePool       float64

	TargetFramePath string

	CommitmentDeadline *time.Time
	RevealsDeadline    *time.Time
}

// StateName reports the current phase's name.
func (b Block[S]) StateName() string {
	var s S
	return s.StateName()
}

func (b Block[S]) String() string {
	return fmt.Sprintf("Block %s (%s)", b.BlockNum, b.StateName())
}

// NewPending creates a block in its initial Pending phase.
func NewPending(blockNum, description, livestreamURL string, targetTimestamp time.Time, prizePool float64) (Block[Pending], error) {
	if blockNum == "" {
		return Block[Pending]{}, ErrInvalidBlockNum
	}
	return Block[Pending]{
		BlockNum:        blockNum,
		CreatedAt:       time.Now().UTC(),
		Description:     description,
		LivestreamURL:   livestreamURL,
		TargetTimestamp: targetTimestamp,
		PrizePool:       prizePool,
	}, nil
}

// NewCommitmentsOpen creates a block that starts directly in
// CommitmentsOpen, skipping the Pending phase — used when commitments are
// opened immediately at block creation.
func NewCommitmentsOpen(blockNum, description, livestreamURL string, targetTimestamp, commitmentDeadline time.Time, prizePool float64) (Block[CommitmentsOpen], error) {
	if blockNum == "" {
		return Block[CommitmentsOpen]{}, ErrInvalidBlockNum
	}
	return Block[CommitmentsOpen]{
		BlockNum:           blockNum,
		CreatedAt:          time.Now().UTC(),
		Description:        description,
		LivestreamURL:      livestreamURL,
		TargetTimestamp:    targetTimestamp,
		PrizePool:          prizePool,
		CommitmentDeadline: &commitmentDeadline,
	}, nil
}

// carryOver copies every phase-independent field into a block tagged with a
// new phase. Every transition funnels through it, as does deserializing a
// persisted block back into its recorded phase.
func carryOver[From, To StateMarker](b Block[From]) Block[To] {
	return Block[To]{
		BlockNum:           b.BlockNum,
		CreatedAt:          b.CreatedAt,
		Description:        b.Description,
		LivestreamURL:      b.LivestreamURL,
		TargetTimestamp:    b.TargetTimestamp,
		PrizePool:          b.PrizePool,
		TargetFramePath:    b.TargetFramePath,
		CommitmentDeadline: b.CommitmentDeadline,
		RevealsDeadline:    b.RevealsDeadline,
	}
}
