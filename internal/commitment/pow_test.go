package commitment

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateAndVerifyProof(t *testing.T) {
	s, err := NewSystemWithDifficulty(2)
	if err != nil {
		t.Fatalf("NewSystemWithDifficulty: %v", err)
	}
	proof, err := s.GenerateProof("test_challenge_123", -1)
	if err != nil {
		t.Fatalf("GenerateProof: %v", err)
	}
	if !s.VerifyProof(proof) {
		t.Fatalf("VerifyProof: expected valid proof")
	}
	if !strings.HasPrefix(proof.Hash, "00") {
		t.Fatalf("hash %q does not have 2 leading zeros", proof.Hash)
	}
}

func TestCommitmentAndRevealProofChallengeShape(t *testing.T) {
	s, err := NewSystemWithDifficulty(1)
	if err != nil {
		t.Fatalf("NewSystemWithDifficulty: %v", err)
	}
	commitProof, err := s.GenerateCommitmentProof("The cat will be orange", "salt456", "block_001", -1)
	if err != nil {
		t.Fatalf("GenerateCommitmentProof: %v", err)
	}
	if !commitProof.IsValid() {
		t.Fatalf("commit proof invalid")
	}
	if !strings.HasPrefix(commitProof.Challenge, "commit:") || !strings.Contains(commitProof.Challenge, "block_001") {
		t.Fatalf("unexpected commit challenge: %q", commitProof.Challenge)
	}

	revealProof, err := s.GenerateRevealProof("The cat will be orange", "salt456", "abc123def456", "block_001", -1)
	if err != nil {
		t.Fatalf("GenerateRevealProof: %v", err)
	}
	if !revealProof.IsValid() {
		t.Fatalf("reveal proof invalid")
	}
	if !strings.HasPrefix(revealProof.Challenge, "reveal:") || !strings.Contains(revealProof.Challenge, "abc123def456") {
		t.Fatalf("unexpected reveal challenge: %q", revealProof.Challenge)
	}
}

func TestInvalidProofRejected(t *testing.T) {
	s := NewSystem()
	bad := ProofOfWork{Challenge: "challenge", Nonce: 12345, Hash: "invalid_hash", Difficulty: 4}
	if s.VerifyProof(bad) {
		t.Fatalf("VerifyProof: expected false for bogus hash")
	}
}

func TestDifficultyTooHighRejected(t *testing.T) {
	if _, err := NewSystemWithDifficulty(25); err != ErrDifficultyTooHigh {
		t.Fatalf("NewSystemWithDifficulty(25): got %v, want ErrDifficultyTooHigh", err)
	}
}

func TestMeetsDifficultyTable(t *testing.T) {
	cases := []struct {
		hash       string
		difficulty int
		want       bool
	}{
		{"0000abc123", 4, true},
		{"000abc123", 3, true},
		{"00abc123", 2, true},
		{"0abc123", 1, true},
		{"abc123", 0, true},
		{"abc123", 1, false},
		{"0abc123", 2, false},
		{"00abc123", 3, false},
	}
	for _, c := range cases {
		if got := meetsDifficulty(c.hash, c.difficulty); got != c.want {
			t.Fatalf("meetsDifficulty(%q, %d) = %v, want %v", c.hash, c.difficulty, got, c.want)
		}
	}
}

func TestManagerTracksStats(t *testing.T) {
	m := NewManager(100 * time.Millisecond)
	proof, err := m.GenerateTrackedProof("test_challenge")
	if err != nil {
		t.Fatalf("GenerateTrackedProof: %v", err)
	}
	if !proof.IsValid() {
		t.Fatalf("proof invalid")
	}
	stats := m.GetStats()
	if stats.ProofsGenerated != 1 {
		t.Fatalf("ProofsGenerated = %d, want 1", stats.ProofsGenerated)
	}
}

func TestEnhancedCommitmentValidity(t *testing.T) {
	s, err := NewSystemWithDifficulty(1)
	if err != nil {
		t.Fatalf("NewSystemWithDifficulty: %v", err)
	}
	pow, err := s.GenerateCommitmentProof("a guess", "salt", "block_002", -1)
	if err != nil {
		t.Fatalf("GenerateCommitmentProof: %v", err)
	}
	vec := []float64{0.1, 0.2, 0.3}
	ec := NewEnhancedCommitment(strings.Repeat("a", 64), HashVector(vec), pow, "block_002")
	if !ec.IsValid() {
		t.Fatalf("expected enhanced commitment to be valid")
	}

	wrongBlock := NewEnhancedCommitment(strings.Repeat("a", 64), HashVector(vec), pow, "block_999")
	if wrongBlock.IsValid() {
		t.Fatalf("expected invalid: proof challenge does not reference block_999")
	}
}
