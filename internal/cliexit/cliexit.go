// Package cliexit maps the error taxonomy in the project's error packages
// to process exit codes, so cmd/validator can report a distinct nonzero
// code per failure category instead of a blanket 1.
package cliexit

import (
	"errors"

	"github.com/cliptions/validator/internal/block"
	"github.com/cliptions/validator/internal/blockengine"
	"github.com/cliptions/validator/internal/broadcast"
	"github.com/cliptions/validator/internal/commitment"
	"github.com/cliptions/validator/internal/embedding"
	"github.com/cliptions/validator/internal/orchestrator"
	"github.com/cliptions/validator/internal/scoring"
	"github.com/cliptions/validator/internal/steganography"
	"github.com/cliptions/validator/internal/store"
)

// Exit codes. 0 is success; every other value identifies which error
// category aborted the run.
const (
	OK = 0

	Commitment    = 10
	ProofOfWork   = 11
	Embedding     = 20
	Scoring       = 30
	Block         = 40
	State         = 50
	Steganography = 60
	Unknown       = 1
)

// Code classifies err into one of the exit codes above by matching it
// against the sentinel errors exported by each package, walking the error
// chain with errors.Is so wrapped errors still classify correctly.
func Code(err error) int {
	if err == nil {
		return OK
	}

	var apiErr *broadcast.APIError
	if errors.As(err, &apiErr) {
		return State
	}

	switch {
	case isAny(err,
		commitment.ErrEmptyMessage, commitment.ErrEmptySalt, commitment.ErrInvalidHashSize, commitment.ErrMismatchedInput):
		return Commitment
	case isAny(err,
		commitment.ErrDifficultyTooHigh, commitment.ErrGenerationTimeout, commitment.ErrNonceOverflow):
		return ProofOfWork
	case isAny(err,
		embedding.ErrInvalidDimensions, embedding.ErrImageProcessing, embedding.ErrModelUnavailable, embedding.ErrEmptyVector):
		return Embedding
	case isAny(err,
		scoring.ErrMissingBaseline, scoring.ErrNoParticipants, scoring.ErrMinimumPlayers,
		scoring.ErrInvalidPrizePool, scoring.ErrInvalidPlatformFee):
		return Scoring
	case isAny(err,
		block.ErrBlockNotFound, block.ErrNoParticipants, block.ErrTargetImageNotFound,
		block.ErrDataFileNotFound, block.ErrAlreadyProcessed, block.ErrDuplicateParticipant, block.ErrNotAcceptingEntries):
		return Block
	case isAny(err,
		broadcast.ErrPostFailed, broadcast.ErrNoSuchPost, broadcast.ErrInvalidText,
		broadcast.ErrNetwork, broadcast.ErrAuth, broadcast.ErrParse,
		broadcast.ErrMedia, broadcast.ErrInvalidInput, broadcast.ErrFile,
		blockengine.ErrTargetTimeNotReached, blockengine.ErrFrameNotCaptured, blockengine.ErrInvalidBlockNum,
		orchestrator.ErrWrongPhase, orchestrator.ErrNoAnnouncementPost,
		block.ErrWrongPhase, store.ErrCorruptDB):
		return State
	case isAny(err,
		steganography.ErrInvalidImage, steganography.ErrInvalidConfiguration, steganography.ErrInsufficientCapacity,
		steganography.ErrEncodingFailed, steganography.ErrSaveFailed, steganography.ErrCorruptedData, steganography.ErrNoEmbeddedData):
		return Steganography
	default:
		return Unknown
	}
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
