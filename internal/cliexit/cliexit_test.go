package cliexit

import (
	"fmt"
	"testing"

	"github.com/cliptions/validator/internal/block"
	"github.com/cliptions/validator/internal/blockengine"
	"github.com/cliptions/validator/internal/broadcast"
	"github.com/cliptions/validator/internal/commitment"
)

func TestCodeNilIsOK(t *testing.T) {
	if got := Code(nil); got != OK {
		t.Fatalf("Code(nil) = %d, want OK", got)
	}
}

func TestCodeClassifiesKnownSentinels(t *testing.T) {
	if got := Code(commitment.ErrEmptyMessage); got != Commitment {
		t.Fatalf("Code(ErrEmptyMessage) = %d, want Commitment", got)
	}
	if got := Code(commitment.ErrGenerationTimeout); got != ProofOfWork {
		t.Fatalf("Code(ErrGenerationTimeout) = %d, want ProofOfWork", got)
	}
	if got := Code(block.ErrBlockNotFound); got != Block {
		t.Fatalf("Code(ErrBlockNotFound) = %d, want Block", got)
	}
}

func TestCodeUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("processing block: %w", block.ErrNoParticipants)
	if got := Code(wrapped); got != Block {
		t.Fatalf("Code(wrapped) = %d, want Block", got)
	}
}

func TestCodeUnknownForUnrecognizedError(t *testing.T) {
	if got := Code(fmt.Errorf("some other failure")); got != Unknown {
		t.Fatalf("Code(unrecognized) = %d, want Unknown", got)
	}
}

func TestCodeClassifiesStateErrors(t *testing.T) {
	if got := Code(blockengine.ErrTargetTimeNotReached); got != State {
		t.Fatalf("Code(ErrTargetTimeNotReached) = %d, want State", got)
	}
	apiErr := &broadcast.APIError{Status: 503, Message: "service unavailable"}
	if got := Code(fmt.Errorf("posting announcement: %w", apiErr)); got != State {
		t.Fatalf("Code(wrapped APIError) = %d, want State", got)
	}
	if !apiErr.Retryable() {
		t.Fatalf("expected a 503 APIError to be retryable")
	}
	if (&broadcast.APIError{Status: 403}).Retryable() {
		t.Fatalf("expected a 403 APIError to not be retryable")
	}
}
