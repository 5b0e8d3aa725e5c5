package broadcast

import "testing"

func TestParseRevealExtractsGuessAndSalt(t *testing.T) {
	text := "Here's my reveal!\nGuess: a red sports car\nSalt: abc123def456\n"
	r, err := ParseReveal(text)
	if err != nil {
		t.Fatalf("ParseReveal: %v", err)
	}
	if r.Guess != "a red sports car" {
		t.Fatalf("Guess = %q, want %q", r.Guess, "a red sports car")
	}
	if r.Salt != "abc123def456" {
		t.Fatalf("Salt = %q, want %q", r.Salt, "abc123def456")
	}
}

func TestParseRevealRejectsPlaceholders(t *testing.T) {
	text := "Guess: [your-guess]\nSalt: [your-salt]\n"
	if _, err := ParseReveal(text); err != ErrInvalidText {
		t.Fatalf("got %v, want ErrInvalidText", err)
	}
}

func TestParseRevealRejectsMissingFields(t *testing.T) {
	if _, err := ParseReveal("Guess: a red car\n"); err != ErrInvalidText {
		t.Fatalf("missing salt: got %v, want ErrInvalidText", err)
	}
	if _, err := ParseReveal("Salt: abc123\n"); err != ErrInvalidText {
		t.Fatalf("missing guess: got %v, want ErrInvalidText", err)
	}
}

func TestParseRevealsSkipsUnparseable(t *testing.T) {
	posts := []Post{
		{ID: "1", Text: "Guess: nice car\nSalt: s1\n"},
		{ID: "2", Text: "not a reveal at all"},
		{ID: "3", Text: "Guess: [your-guess]\nSalt: s3\n"},
	}
	revealed := ParseReveals(posts)
	if len(revealed) != 1 {
		t.Fatalf("len(revealed) = %d, want 1", len(revealed))
	}
	if _, ok := revealed["1"]; !ok {
		t.Fatalf("expected post 1 to be parsed")
	}
}

func TestParseCommitmentExtractsDigestAndWallet(t *testing.T) {
	text := "My commitment: 9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08\nWallet: bc1qxyzexample\n"
	c, err := ParseCommitment(text)
	if err != nil {
		t.Fatalf("ParseCommitment: %v", err)
	}
	if c.Hash != "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08" {
		t.Fatalf("Hash = %q", c.Hash)
	}
	if c.Wallet != "bc1qxyzexample" {
		t.Fatalf("Wallet = %q", c.Wallet)
	}
}

func TestParseCommitmentWalletOptional(t *testing.T) {
	c, err := ParseCommitment("9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08")
	if err != nil {
		t.Fatalf("ParseCommitment: %v", err)
	}
	if c.Wallet != "" {
		t.Fatalf("Wallet = %q, want empty", c.Wallet)
	}
}

func TestParseCommitmentRejectsMissingDigest(t *testing.T) {
	if _, err := ParseCommitment("no digest here\nWallet: bc1qxyzexample"); err != ErrInvalidText {
		t.Fatalf("got %v, want ErrInvalidText", err)
	}
	// Too short to be a SHA-256 digest.
	if _, err := ParseCommitment("deadbeef"); err != ErrInvalidText {
		t.Fatalf("short hex: got %v, want ErrInvalidText", err)
	}
}
