// Package scoring computes similarity scores between guesses and the target
// frame, ranks participants, and converts rankings into prize-pool payouts.
package scoring

import "github.com/cliptions/validator/internal/embedding"

// Strategy computes a similarity score for a guess's text embedding against
// the target image embedding, optionally adjusting for a baseline.
type Strategy interface {
	Score(imageFeatures, textFeatures, baselineFeatures []float64) (float64, error)
	Name() string
}

// RawSimilarity scores a guess purely by cosine similarity to the target.
type RawSimilarity struct{}

func (RawSimilarity) Score(imageFeatures, textFeatures, _ []float64) (float64, error) {
	return embedding.CosineSimilarity(textFeatures, imageFeatures)
}

func (RawSimilarity) Name() string { return "RawSimilarity" }

// BaselineAdjusted rescales raw similarity against a baseline ("[UNUSED]"-style
// neutral prompt) so that near-baseline guesses score near zero instead of
// whatever constant offset cosine similarity happens to produce for unrelated
// text/image pairs.
type BaselineAdjusted struct{}

func (BaselineAdjusted) Score(imageFeatures, textFeatures, baselineFeatures []float64) (float64, error) {
	if baselineFeatures == nil {
		return 0, ErrMissingBaseline
	}
	raw, err := embedding.CosineSimilarity(textFeatures, imageFeatures)
	if err != nil {
		return 0, err
	}
	baseline, err := embedding.CosineSimilarity(baselineFeatures, imageFeatures)
	if err != nil {
		return 0, err
	}

	var adjusted float64
	if baseline >= 1.0 {
		adjusted = raw
	} else {
		adjusted = (raw - baseline) / (1.0 - baseline)
	}
	if adjusted < 0 {
		adjusted = 0
	}
	return adjusted, nil
}

func (BaselineAdjusted) Name() string { return "BaselineAdjusted" }

// ClipBatch scores a batch of text embeddings against one image embedding
// using the given strategy, returning scores in input order.
func ClipBatch(strategy Strategy, imageFeatures []float64, textFeatures [][]float64, baselineFeatures []float64) ([]float64, error) {
	scores := make([]float64, len(textFeatures))
	for i, tf := range textFeatures {
		s, err := strategy.Score(imageFeatures, tf, baselineFeatures)
		if err != nil {
			return nil, err
		}
		scores[i] = s
	}
	return scores, nil
}
