// Package commitment implements the commit-reveal cryptographic protocol:
// participants commit to a guess by posting SHA-256(message||salt), then
// later reveal message and salt so anyone can recompute and check the hash.
package commitment

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultSaltLength is the number of random bytes used for a generated salt.
const DefaultSaltLength = 32

// Generator builds commitments from a message and salt.
type Generator struct {
	saltLength int
}

// NewGenerator returns a Generator using DefaultSaltLength.
func NewGenerator() *Generator {
	return &Generator{saltLength: DefaultSaltLength}
}

// NewGeneratorWithSaltLength returns a Generator whose GenerateSalt produces
// saltLength random bytes.
func NewGeneratorWithSaltLength(saltLength int) *Generator {
	return &Generator{saltLength: saltLength}
}

// Generate returns the hex-encoded SHA-256 digest of message||salt.
func (g *Generator) Generate(message, salt string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	if salt == "" {
		return "", ErrEmptySalt
	}
	h := sha256.New()
	h.Write([]byte(message))
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// GenerateSalt returns a random hex-encoded salt of the configured length.
func (g *Generator) GenerateSalt() (string, error) {
	buf := make([]byte, g.saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Verifier checks commitments against a revealed message and salt.
type Verifier struct {
	generator *Generator
}

// NewVerifier returns a Verifier backed by a default Generator.
func NewVerifier() *Verifier {
	return &Verifier{generator: NewGenerator()}
}

// Verify reports whether commitment equals SHA-256(message||salt).
func (v *Verifier) Verify(message, salt, commitment string) bool {
	calculated, err := v.generator.Generate(message, salt)
	if err != nil {
		return false
	}
	return calculated == commitment
}

// Entry is one (message, salt, commitment) triple to verify in a batch.
type Entry struct {
	Message    string
	Salt       string
	Commitment string
}

// VerifyBatch verifies each entry in order, sequentially.
func (v *Verifier) VerifyBatch(entries []Entry) []bool {
	results := make([]bool, len(entries))
	for i, e := range entries {
		results[i] = v.Verify(e.Message, e.Salt, e.Commitment)
	}
	return results
}

// VerifyBatchParallel verifies each entry concurrently, fanning out across
// an errgroup limited to GOMAXPROCS concurrent checks and preserving input
// order in the returned slice. It returns
// an error only if ctx is canceled before all checks complete; individual
// verification failures are reported as false, not as errors.
func (v *Verifier) VerifyBatchParallel(ctx context.Context, entries []Entry) ([]bool, error) {
	results := make([]bool, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range entries {
		i, e := i, e
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = v.Verify(e.Message, e.Salt, e.Commitment)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
