package commitment

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"
	"time"
)

// HashCommitment returns the hex-encoded SHA-256 digest of
// message||salt||vector, where vector is serialized as IEEE-754
// little-endian bytes component by component. Binding the embedding into
// the commitment hash prevents a miner from revealing a text whose
// embedding differs from the one used when the commitment was generated;
// the verifier must re-embed the revealed text and feed the same vector
// bytes through this function to check it.
func HashCommitment(message, salt string, vector []float64) string {
	h := sha256.New()
	h.Write([]byte(message))
	h.Write([]byte(salt))
	var buf [8]byte
	for _, v := range vector {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashVector returns the hex-encoded SHA-256 digest of a float64 embedding
// vector's IEEE-754 little-endian byte representation, used to commit to a
// CLIP embedding without revealing it.
func HashVector(vector []float64) string {
	buf := make([]byte, 8*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// EnhancedCommitment bundles a text commitment, a CLIP vector commitment and
// a commitment-phase proof of work into a single spam-resistant submission.
type EnhancedCommitment struct {
	CommitmentHash   string      `json:"commitmentHash"`
	VectorCommitment string      `json:"vectorCommitment"`
	ProofOfWork      ProofOfWork `json:"proofOfWork"`
	BlockNum         string      `json:"blockNum"`
	Timestamp        time.Time   `json:"timestamp"`
}

// NewEnhancedCommitment stamps the current time onto a fully-formed
// enhanced commitment.
func NewEnhancedCommitment(commitmentHash, vectorCommitment string, pow ProofOfWork, blockNum string) EnhancedCommitment {
	return EnhancedCommitment{
		CommitmentHash:   commitmentHash,
		VectorCommitment: vectorCommitment,
		ProofOfWork:      pow,
		BlockNum:         blockNum,
		Timestamp:        time.Now().UTC(),
	}
}

// IsValid checks the proof of work, that it was generated for the commit
// phase of this block, and that both hashes are well-formed SHA-256 digests.
func (e EnhancedCommitment) IsValid() bool {
	if !e.ProofOfWork.IsValid() {
		return false
	}
	if !strings.HasPrefix(e.ProofOfWork.Challenge, "commit:"+e.BlockNum+":") {
		return false
	}
	if len(e.CommitmentHash) != 64 || len(e.VectorCommitment) != 64 {
		return false
	}
	return true
}
