package scoring

import (
	"context"
	"math"
	"testing"

	"github.com/cliptions/validator/internal/embedding"
)

func TestRawSimilarityMatchesCosine(t *testing.T) {
	e := embedding.NewMockEmbedder(64)
	img, _ := e.ImageEmbedding(context.Background(), "frame.png")
	txt, _ := e.TextEmbedding(context.Background(), "a red car")

	s := RawSimilarity{}
	got, err := s.Score(img, txt, nil)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	want, _ := embedding.CosineSimilarity(txt, img)
	if got != want {
		t.Fatalf("RawSimilarity.Score = %v, want %v", got, want)
	}
}

func TestBaselineAdjustedRequiresBaseline(t *testing.T) {
	e := embedding.NewMockEmbedder(64)
	img, _ := e.ImageEmbedding(context.Background(), "frame.png")
	txt, _ := e.TextEmbedding(context.Background(), "a red car")

	s := BaselineAdjusted{}
	if _, err := s.Score(img, txt, nil); err != ErrMissingBaseline {
		t.Fatalf("got %v, want ErrMissingBaseline", err)
	}
}

func TestBaselineAdjustedIsNonNegative(t *testing.T) {
	e := embedding.NewMockEmbedder(64)
	img, _ := e.ImageEmbedding(context.Background(), "frame.png")
	txt, _ := e.TextEmbedding(context.Background(), "a red car")
	baseline, _ := e.TextEmbedding(context.Background(), "[UNUSED]")

	s := BaselineAdjusted{}
	got, err := s.Score(img, txt, baseline)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got < 0 {
		t.Fatalf("BaselineAdjusted.Score = %v, want >= 0", got)
	}
	if math.IsNaN(got) {
		t.Fatalf("BaselineAdjusted.Score is NaN")
	}
}

func TestClipBatchPreservesOrder(t *testing.T) {
	e := embedding.NewMockEmbedder(64)
	img, _ := e.ImageEmbedding(context.Background(), "frame.png")
	g1, _ := e.TextEmbedding(context.Background(), "guess one")
	g2, _ := e.TextEmbedding(context.Background(), "guess two")

	scores, err := ClipBatch(RawSimilarity{}, img, [][]float64{g1, g2}, nil)
	if err != nil {
		t.Fatalf("ClipBatch: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("len(scores) = %d, want 2", len(scores))
	}
	want1, _ := embedding.CosineSimilarity(g1, img)
	if scores[0] != want1 {
		t.Fatalf("scores[0] = %v, want %v", scores[0], want1)
	}
}
