// Package processor orchestrates a single block through verification,
// scoring, ranking and payout: the step the validator runs once reveals
// close, turning a RevealsClosed block into a Finished one.
package processor

import (
	"context"
	"log"

	"github.com/cliptions/validator/internal/block"
	"github.com/cliptions/validator/internal/commitment"
	"github.com/cliptions/validator/internal/embedding"
	"github.com/cliptions/validator/internal/scoring"
	"github.com/cliptions/validator/internal/store"
)

// Dependencies bundles the collaborators a processing run needs beyond the
// block itself, so callers can swap in mocks for tests or wire a real CLIP
// backend in production.
type Dependencies struct {
	Embedder     embedding.Embedder
	Strategy     scoring.Strategy
	Baseline     []float64 // nil if Strategy doesn't need one (e.g. RawSimilarity)
	PayoutConfig scoring.Config
}

// Progress tracks how far a run has gotten, so a long-running processor
// can report status to a dashboard mid-run.
type Progress struct {
	Verified int
	Scored   int
	Paid     int
}

// Verify checks every participant's reveal against their commitment and
// marks matches as verified in place. Participants with no salt recorded
// (never revealed) or a salt/text that doesn't reproduce the commitment are
// left unverified and excluded from scoring.
func Verify(b *block.Block, progress *Progress) {
	verifier := commitment.NewVerifier()
	for id, p := range b.Participants {
		if p.Salt == "" {
			continue
		}
		if verifier.Verify(p.Guess.Text, p.Salt, p.Commitment) {
			p.Verified = true
			b.Participants[id] = p
			if progress != nil {
				progress.Verified++
			}
		}
	}
}

// Score computes an adjusted-similarity score for every verified
// participant's guess against the embedding of the target frame.
func Score(ctx context.Context, b block.Block, deps Dependencies, progress *Progress) (map[string]float64, error) {
	if b.TargetFramePath == "" {
		return nil, block.ErrTargetImageNotFound
	}

	verified := b.VerifiedParticipants()
	if len(verified) == 0 {
		return nil, block.ErrNoParticipants
	}

	imageFeatures, err := deps.Embedder.ImageEmbedding(ctx, b.TargetFramePath)
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(verified))
	for _, p := range verified {
		textFeatures, err := deps.Embedder.TextEmbedding(ctx, p.Guess.Text)
		if err != nil {
			return nil, err
		}
		s, err := deps.Strategy.Score(imageFeatures, textFeatures, deps.Baseline)
		if err != nil {
			return nil, err
		}
		scores[p.SocialID] = s
		if progress != nil {
			progress.Scored++
		}
	}
	return scores, nil
}

// RankAndPay turns a per-participant score map into ranked, paid
// ScoringResults, ready to be folded back into the block via SetResults.
func RankAndPay(b block.Block, scores map[string]float64, payoutConfig scoring.Config, progress *Progress) ([]block.ScoringResult, error) {
	keys := make([]string, 0, len(scores))
	rawScores := make([]float64, 0, len(scores))
	for id, s := range scores {
		keys = append(keys, id)
		rawScores = append(rawScores, s)
	}

	ranked, err := scoring.Rank(keys, rawScores)
	if err != nil {
		return nil, err
	}

	rankedKeys := make([]string, len(ranked))
	rankedScores := make([]float64, len(ranked))
	for i, r := range ranked {
		rankedKeys[i] = r.Key
		rankedScores[i] = r.Score
	}

	calc := scoring.NewCalculatorWithConfig(payoutConfig)
	payouts, err := calc.CalculatePayouts(rankedKeys, rankedScores)
	if err != nil {
		return nil, err
	}

	results := make([]block.ScoringResult, len(ranked))
	for i, r := range ranked {
		p := b.Participants[r.Key]
		results[i] = block.ScoringResult{
			Participant:   p,
			RawScore:      r.Score,
			AdjustedScore: r.Score,
			Rank:          r.Rank,
			Payout:        payouts[i],
		}
		if progress != nil {
			progress.Paid++
		}
	}
	return results, nil
}

// Process runs the full verify → score → rank/pay pipeline over b and
// returns the finished block, without persisting it — callers that want
// persistence should use ProcessAndSave.
func Process(ctx context.Context, b block.Block, deps Dependencies) (block.Block, error) {
	var progress Progress
	Verify(&b, &progress)

	scores, err := Score(ctx, b, deps, &progress)
	if err != nil {
		return block.Block{}, err
	}

	results, err := RankAndPay(b, scores, deps.PayoutConfig, &progress)
	if err != nil {
		return block.Block{}, err
	}

	b.SetResults(results)
	log.Printf("[processor] block %s finished: verified=%d scored=%d paid=%d total_payout=%.6f",
		b.BlockNum, progress.Verified, progress.Scored, progress.Paid, b.TotalPayout)
	return b, nil
}

// ProcessAndSave loads a block by number, runs Process over it, and
// persists the finished result via st. It fails with block.ErrBlockNotFound
// if blockNum isn't recorded, and block.ErrAlreadyProcessed if the stored
// block is already Finished.
func ProcessAndSave(ctx context.Context, st *store.JSONBlockStore, blockNum string, deps Dependencies) (block.Block, error) {
	b, err := st.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if b.Status == block.StatusFinished {
		return block.Block{}, block.ErrAlreadyProcessed
	}

	finished, err := Process(ctx, b, deps)
	if err != nil {
		return block.Block{}, err
	}

	if err := st.Save(finished); err != nil {
		return block.Block{}, err
	}
	return finished, nil
}
