package block

import "errors"

// Errors returned by the block data model (spec §7, "Block" kind).
var (
	ErrDuplicateParticipant = errors.New("block: participant with this social id already exists")
	ErrNotAcceptingEntries  = errors.New("block: commitments are not open")
	ErrBlockNotFound        = errors.New("block: not found")
	ErrNoParticipants       = errors.New("block: no verified participants")
	ErrTargetImageNotFound  = errors.New("block: target frame not found")
	ErrAlreadyProcessed     = errors.New("block: already processed")
	ErrDataFileNotFound     = errors.New("block: data file not found")
	ErrParticipantNotFound  = errors.New("block: participant not found")
	ErrRevealsNotOpen       = errors.New("block: reveals are not open")
	ErrWrongPhase           = errors.New("block: operation not valid for the block's current phase")
)
