package commitment

import (
	"context"
	"fmt"
	"testing"
)

func TestGenerateRejectsEmptyMessageOrSalt(t *testing.T) {
	g := NewGenerator()

	if _, err := g.Generate("  ", "salt"); err != ErrEmptyMessage {
		t.Fatalf("Generate with blank message: got %v, want ErrEmptyMessage", err)
	}
	if _, err := g.Generate("hello", ""); err != ErrEmptySalt {
		t.Fatalf("Generate with empty salt: got %v, want ErrEmptySalt", err)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewGenerator()
	a, err := g.Generate("a red car", "salt123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := g.Generate("a red car", "salt123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a != b {
		t.Fatalf("Generate not deterministic: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("commitment length = %d, want 64", len(a))
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	g := NewGenerator()
	v := NewVerifier()

	commitment, err := g.Generate("a red car", "salt123")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !v.Verify("a red car", "salt123", commitment) {
		t.Fatalf("Verify: expected true for matching message/salt")
	}
	if v.Verify("a blue car", "salt123", commitment) {
		t.Fatalf("Verify: expected false for mismatched message")
	}
	if v.Verify("a red car", "wrongsalt", commitment) {
		t.Fatalf("Verify: expected false for mismatched salt")
	}
}

func TestVerifyBatchMatchesSequentialPerEntry(t *testing.T) {
	g := NewGenerator()
	v := NewVerifier()

	valid, err := g.Generate("guess one", "salt-a")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	entries := []Entry{
		{Message: "guess one", Salt: "salt-a", Commitment: valid},
		{Message: "guess one", Salt: "salt-a", Commitment: "deadbeef"},
	}

	got := v.VerifyBatch(entries)
	want := []bool{true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("VerifyBatch[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestVerifyBatchParallelMatchesSequential(t *testing.T) {
	g := NewGenerator()
	v := NewVerifier()

	var entries []Entry
	for i := 0; i < 25; i++ {
		salt, _ := g.GenerateSalt()
		msg := "guess"
		c, err := g.Generate(msg, salt)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		entries = append(entries, Entry{Message: msg, Salt: salt, Commitment: c})
	}
	// Corrupt one entry so the result isn't trivially all-true.
	entries[10].Commitment = "0000000000000000000000000000000000000000000000000000000000000"

	seq := v.VerifyBatch(entries)
	par, err := v.VerifyBatchParallel(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyBatchParallel: %v", err)
	}
	if len(seq) != len(par) {
		t.Fatalf("length mismatch: seq=%d par=%d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("index %d: sequential=%v parallel=%v", i, seq[i], par[i])
		}
	}
}

func TestHashCommitmentBindsVectorBytes(t *testing.T) {
	vec := []float64{0.1, -0.2, 0.3}
	a := HashCommitment("a red car", "salt123", vec)
	b := HashCommitment("a red car", "salt123", vec)
	if a != b {
		t.Fatalf("HashCommitment not deterministic: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("len(HashCommitment) = %d, want 64", len(a))
	}

	other := HashCommitment("a red car", "salt123", []float64{0.1, -0.2, 0.30001})
	if a == other {
		t.Fatalf("HashCommitment should differ when the bound vector changes")
	}
}

func TestGenerateSaltLength(t *testing.T) {
	g := NewGeneratorWithSaltLength(16)
	salt, err := g.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	if len(salt) != 32 { // 16 bytes hex-encoded
		t.Fatalf("salt length = %d, want 32", len(salt))
	}
}

func TestBatchHalfValidHalfInvalid(t *testing.T) {
	g := NewGenerator()
	v := NewVerifier()

	entries := make([]Entry, 0, 100)
	for i := 0; i < 50; i++ {
		salt, _ := g.GenerateSalt()
		msg := fmt.Sprintf("guess %d", i)
		c, err := g.Generate(msg, salt)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		entries = append(entries, Entry{Message: msg, Salt: salt, Commitment: c})
	}
	for i := 50; i < 100; i++ {
		salt, _ := g.GenerateSalt()
		entries = append(entries, Entry{
			Message:    fmt.Sprintf("guess %d", i),
			Salt:       salt,
			Commitment: fmt.Sprintf("%064d", i),
		})
	}

	seq := v.VerifyBatch(entries)
	par, err := v.VerifyBatchParallel(context.Background(), entries)
	if err != nil {
		t.Fatalf("VerifyBatchParallel: %v", err)
	}
	for i := 0; i < 100; i++ {
		want := i < 50
		if seq[i] != want {
			t.Fatalf("sequential[%d] = %v, want %v", i, seq[i], want)
		}
		if par[i] != seq[i] {
			t.Fatalf("parallel[%d] = %v, diverges from sequential", i, par[i])
		}
	}
}
