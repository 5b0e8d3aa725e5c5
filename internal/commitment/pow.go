package commitment

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// MaxDifficulty is the highest number of leading hex zeros a ProofOfWorkSystem
// will accept; beyond this, generation time becomes impractical.
const MaxDifficulty = 20

// ProofOfWork is a hashcash-style solution: a nonce such that
// SHA-256(challenge||nonce) has at least Difficulty leading hex zeros.
type ProofOfWork struct {
	Challenge  string    `json:"challenge"`
	Nonce      uint64    `json:"nonce"`
	Hash       string    `json:"hash"`
	Difficulty int       `json:"difficulty"`
	Timestamp  time.Time `json:"timestamp"`
}

// IsValid recomputes the hash for Challenge and Nonce and checks it both
// matches Hash and meets Difficulty.
func (p ProofOfWork) IsValid() bool {
	if calculateHash(p.Challenge, p.Nonce) != p.Hash {
		return false
	}
	return meetsDifficulty(p.Hash, p.Difficulty)
}

func calculateHash(challenge string, nonce uint64) string {
	h := sha256.New()
	h.Write([]byte(challenge))
	var nb [8]byte
	binary.LittleEndian.PutUint64(nb[:], nonce)
	h.Write(nb[:])
	return hex.EncodeToString(h.Sum(nil))
}

func meetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if difficulty > len(hash) {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == difficulty
}

// System generates and checks proof of work challenges at a configured
// difficulty, bounded by a generation timeout.
type System struct {
	defaultDifficulty int
	maxGenerationTime time.Duration
}

// NewSystem returns a System with difficulty 4 and a 30 second timeout,
// mirroring the original spam-prevention defaults.
func NewSystem() *System {
	return &System{defaultDifficulty: 4, maxGenerationTime: 30 * time.Second}
}

// NewSystemWithDifficulty returns a System with a custom default difficulty.
func NewSystemWithDifficulty(difficulty int) (*System, error) {
	if difficulty > MaxDifficulty {
		return nil, ErrDifficultyTooHigh
	}
	return &System{defaultDifficulty: difficulty, maxGenerationTime: 30 * time.Second}, nil
}

// NewSystemWithSettings returns a System with custom difficulty and timeout.
func NewSystemWithSettings(difficulty int, maxTime time.Duration) (*System, error) {
	if difficulty > MaxDifficulty {
		return nil, ErrDifficultyTooHigh
	}
	return &System{defaultDifficulty: difficulty, maxGenerationTime: maxTime}, nil
}

// GenerateProof searches for a nonce satisfying difficulty (or the system's
// default if difficulty < 0). It returns ErrGenerationTimeout if no nonce is
// found within the system's max generation time.
func (s *System) GenerateProof(challenge string, difficulty int) (ProofOfWork, error) {
	target := difficulty
	if target < 0 {
		target = s.defaultDifficulty
	}
	deadline := time.Now().Add(s.maxGenerationTime)

	var nonce uint64
	for {
		if time.Now().After(deadline) {
			return ProofOfWork{}, ErrGenerationTimeout
		}
		hash := calculateHash(challenge, nonce)
		if meetsDifficulty(hash, target) {
			return ProofOfWork{
				Challenge:  challenge,
				Nonce:      nonce,
				Hash:       hash,
				Difficulty: target,
				Timestamp:  time.Now().UTC(),
			}, nil
		}
		if nonce == ^uint64(0) {
			return ProofOfWork{}, ErrNonceOverflow
		}
		nonce++
	}
}

// VerifyProof reports whether proof is internally consistent and satisfies
// its own difficulty.
func (s *System) VerifyProof(proof ProofOfWork) bool {
	return proof.IsValid()
}

// GenerateCommitmentProof builds a challenge binding the round, prediction
// and salt together so a commitment-phase proof cannot be replayed elsewhere.
func (s *System) GenerateCommitmentProof(prediction, salt, blockNum string, difficulty int) (ProofOfWork, error) {
	challenge := fmt.Sprintf("commit:%s:%s:%s", blockNum, prediction, salt)
	return s.GenerateProof(challenge, difficulty)
}

// GenerateRevealProof builds a challenge for the reveal phase, additionally
// binding the commitment hash being revealed.
func (s *System) GenerateRevealProof(prediction, salt, commitmentHash, blockNum string, difficulty int) (ProofOfWork, error) {
	challenge := fmt.Sprintf("reveal:%s:%s:%s:%s", blockNum, commitmentHash, prediction, salt)
	return s.GenerateProof(challenge, difficulty)
}

// EstimateGenerationTime very roughly projects how long proof generation
// will take at the given difficulty, assuming each level is ~16x harder.
func (s *System) EstimateGenerationTime(difficulty int) time.Duration {
	const baseMillis = 10
	multiplier := uint64(1)
	for i := 0; i < difficulty; i++ {
		multiplier *= 16
	}
	estimated := time.Duration(baseMillis*multiplier) * time.Millisecond
	const cap = 5 * time.Minute
	if estimated > cap {
		return cap
	}
	return estimated
}

// DefaultDifficulty returns the system's current default difficulty.
func (s *System) DefaultDifficulty() int {
	return s.defaultDifficulty
}

// SetDefaultDifficulty updates the system's default difficulty.
func (s *System) SetDefaultDifficulty(difficulty int) error {
	if difficulty > MaxDifficulty {
		return ErrDifficultyTooHigh
	}
	s.defaultDifficulty = difficulty
	return nil
}

// Stats summarizes recent proof-generation performance for difficulty
// tuning and operator dashboards.
type Stats struct {
	AvgGenerationTime time.Duration `json:"avgGenerationTime"`
	ProofsGenerated   uint64        `json:"proofsGenerated"`
	CurrentDifficulty int           `json:"currentDifficulty"`
	HashRate          float64       `json:"hashRate"`
}

// Manager tracks recent proof generation times and adaptively adjusts
// difficulty to keep generation time near a target.
type Manager struct {
	system      *System
	stats       Stats
	recentTimes []time.Duration
	targetTime  time.Duration
}

// NewManager returns a Manager aiming for targetTime per proof.
func NewManager(targetTime time.Duration) *Manager {
	return &Manager{
		system:     NewSystem(),
		stats:      Stats{CurrentDifficulty: 4},
		targetTime: targetTime,
	}
}

// GenerateTrackedProof generates a proof at the system's default difficulty
// and folds the elapsed time into the manager's rolling statistics.
func (m *Manager) GenerateTrackedProof(challenge string) (ProofOfWork, error) {
	start := time.Now()
	proof, err := m.system.GenerateProof(challenge, -1)
	if err != nil {
		return ProofOfWork{}, err
	}
	elapsed := time.Since(start)

	m.recentTimes = append(m.recentTimes, elapsed)
	if len(m.recentTimes) > 10 {
		m.recentTimes = m.recentTimes[1:]
	}
	m.stats.ProofsGenerated++
	m.updateStats()

	return proof, nil
}

func (m *Manager) updateStats() {
	if len(m.recentTimes) == 0 {
		return
	}
	var total time.Duration
	for _, d := range m.recentTimes {
		total += d
	}
	m.stats.AvgGenerationTime = total / time.Duration(len(m.recentTimes))

	avgSeconds := m.stats.AvgGenerationTime.Seconds()
	if avgSeconds > 0 {
		estimatedHashes := 1.0
		for i := 0; i < m.stats.CurrentDifficulty*4; i++ {
			estimatedHashes *= 2
		}
		m.stats.HashRate = estimatedHashes / avgSeconds
	}
}

// AdjustDifficulty raises or lowers the system's difficulty once enough
// samples have accumulated, targeting roughly targetTime per proof.
func (m *Manager) AdjustDifficulty() error {
	if len(m.recentTimes) < 5 {
		return nil
	}
	avg := m.stats.AvgGenerationTime
	switch {
	case avg < m.targetTime/2 && m.stats.CurrentDifficulty < 15:
		m.stats.CurrentDifficulty++
		return m.system.SetDefaultDifficulty(m.stats.CurrentDifficulty)
	case avg > m.targetTime*2 && m.stats.CurrentDifficulty > 1:
		m.stats.CurrentDifficulty--
		return m.system.SetDefaultDifficulty(m.stats.CurrentDifficulty)
	}
	return nil
}

// GetStats returns the manager's current statistics snapshot.
func (m *Manager) GetStats() Stats {
	return m.stats
}

// System returns the underlying proof-of-work system.
func (m *Manager) System() *System {
	return m.system
}
