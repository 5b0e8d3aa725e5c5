package blockengine

import "time"

// FromFields rebuilds a typed Block[S] from plain field values, the
// typestate escape hatch for resuming a persisted phase: it lets the
// orchestrator re-derive a compile-time-checked typestate value from a
// block it loaded out of the JSON store, without blockengine importing the
// store's data model and creating a package cycle.
//
// Callers are responsible for only requesting a phase the stored block
// actually reached; FromFields performs no validation of its own; it exists
// to recover type information that the persisted record, being untyped
// JSON, necessarily erased.
func FromFields[S StateMarker](
	blockNum, description, livestreamURL string,
	createdAt, targetTimestamp time.Time,
	prizePool float64,
	targetFramePath string,
	commitmentDeadline, revealsDeadline *time.Time,
) Block[S] {
	return Block[S]{
		BlockNum:           blockNum,
		CreatedAt:          createdAt,
		Description:        description,
		LivestreamURL:      livestreamURL,
		TargetTimestamp:    targetTimestamp,
		PrizePool:          prizePool,
		TargetFramePath:    targetFramePath,
		CommitmentDeadline: commitmentDeadline,
		RevealsDeadline:    revealsDeadline,
	}
}
