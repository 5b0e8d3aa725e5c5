// Package block defines the Cliptions prediction-round data model: the
// Block, Participant and Guess entities and the invariants that hold across
// a block's lifetime (see state machine guards in internal/blockengine).
package block

import "time"

// Status is the lifecycle stage of a block. Values are ordered; the
// orchestrator advances Status after the matching internal/blockengine
// transition succeeds, and SetResults moves a block to Finished.
type Status int

const (
	StatusPending Status = iota
	StatusCommitmentsOpen
	StatusCommitmentsClosed
	StatusFrameCaptured
	StatusRevealsOpen
	StatusRevealsClosed
	StatusPayouts
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusCommitmentsOpen:
		return "CommitmentsOpen"
	case StatusCommitmentsClosed:
		return "CommitmentsClosed"
	case StatusFrameCaptured:
		return "FrameCaptured"
	case StatusRevealsOpen:
		return "RevealsOpen"
	case StatusRevealsClosed:
		return "RevealsClosed"
	case StatusPayouts:
		return "Payouts"
	case StatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Block is one prediction round: its parameters, the participants that have
// committed or revealed, and the prize pool distributed once it finishes.
type Block struct {
	BlockNum           string                 `json:"blockNum"`
	Description        string                 `json:"description"`
	LivestreamURL      string                 `json:"livestreamUrl"`
	TargetTimestamp    time.Time              `json:"targetTimestamp"`
	TargetFramePath    string                 `json:"targetFramePath,omitempty"`
	CommitmentDeadline *time.Time             `json:"commitmentDeadline,omitempty"`
	RevealsDeadline    *time.Time             `json:"revealsDeadline,omitempty"`
	Participants       map[string]Participant `json:"participants"`
	PrizePool          float64                `json:"prizePool"`
	TotalPayout        float64                `json:"totalPayout,omitempty"`
	Status             Status                 `json:"status"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// New creates a block in the Pending state with an immutable prize pool.
func New(blockNum, description, livestreamURL string, targetTimestamp time.Time, prizePool float64) Block {
	now := time.Now().UTC()
	return Block{
		BlockNum:        blockNum,
		Description:     description,
		LivestreamURL:   livestreamURL,
		TargetTimestamp: targetTimestamp,
		PrizePool:       prizePool,
		Participants:    make(map[string]Participant),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AddParticipant inserts a new participant, enforcing the spec's invariants:
// commitments must be open, and social ids are unique within a block.
func (b *Block) AddParticipant(p Participant) error {
	if b.Status != StatusCommitmentsOpen {
		return ErrNotAcceptingEntries
	}
	if _, exists := b.Participants[p.SocialID]; exists {
		return ErrDuplicateParticipant
	}
	if b.Participants == nil {
		b.Participants = make(map[string]Participant)
	}
	b.Participants[p.SocialID] = p
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// SubmitReveal records a participant's revealed guess text and salt,
// enforcing that reveals are only accepted while the block is in
// RevealsOpen and that the social id committed earlier.
func (b *Block) SubmitReveal(socialID, text, salt string) error {
	if b.Status != StatusRevealsOpen {
		return ErrRevealsNotOpen
	}
	p, ok := b.Participants[socialID]
	if !ok {
		return ErrParticipantNotFound
	}
	p.Guess = NewGuess(text)
	p.Salt = salt
	b.Participants[socialID] = p
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// VerifiedParticipants returns the subset of participants whose reveal has
// been checked against their commitment.
func (b *Block) VerifiedParticipants() []Participant {
	out := make([]Participant, 0, len(b.Participants))
	for _, p := range b.Participants {
		if p.Verified {
			out = append(out, p)
		}
	}
	return out
}

// ScoringResult is the transient output of the ranking/payout engine for a
// single participant, before it is folded back into the block.
type ScoringResult struct {
	Participant   Participant
	RawScore      float64
	AdjustedScore float64
	Rank          int
	Payout        float64
}

// SetResults attaches rank/score/payout to the matching participants and
// transitions the block to Finished. It is the only mutator allowed to move
// a block into its terminal state.
func (b *Block) SetResults(results []ScoringResult) {
	for _, r := range results {
		p := b.Participants[r.Participant.SocialID]
		p.Score = r.AdjustedScore
		p.Rank = r.Rank
		p.Payout = r.Payout
		b.Participants[r.Participant.SocialID] = p
	}
	var total float64
	for _, r := range results {
		total += r.Payout
	}
	b.TotalPayout = total
	b.Status = StatusFinished
	b.UpdatedAt = time.Now().UTC()
}
