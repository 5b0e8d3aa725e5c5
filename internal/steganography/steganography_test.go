package steganography

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rng := rand.New(rand.NewSource(1))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func testVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i) / float64(n)
	}
	return v
}

func TestEmbedAndExtractVectorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	out := filepath.Join(dir, "out.png")
	writeTestImage(t, src, 512, 512)

	s := New()
	vector := testVector(512)
	meta := VectorMeta{Version: 1, Dimension: 512, Salt: "abc123", BlockNum: "block_1"}

	if err := s.EmbedVector(src, vector, meta, out); err != nil {
		t.Fatalf("EmbedVector: %v", err)
	}

	extracted, extractedMeta, err := s.ExtractVector(out)
	if err != nil {
		t.Fatalf("ExtractVector: %v", err)
	}
	if len(extracted) != len(vector) {
		t.Fatalf("extracted len = %d, want %d", len(extracted), len(vector))
	}
	for i := range vector {
		if diff := extracted[i] - vector[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("vector[%d] = %v, want %v", i, extracted[i], vector[i])
		}
	}
	if extractedMeta.Salt != meta.Salt || extractedMeta.BlockNum != meta.BlockNum {
		t.Fatalf("meta mismatch: got %+v, want %+v", extractedMeta, meta)
	}
}

func TestCapacityCalculation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writeTestImage(t, src, 100, 100)

	img, err := decodeRGBA(src)
	if err != nil {
		t.Fatalf("decodeRGBA: %v", err)
	}
	s := New()
	got := s.Capacity(img)
	want := 100 * 100 * 3 * 2 / 8
	if got != want {
		t.Fatalf("Capacity = %d, want %d", got, want)
	}
}

func TestHasEmbeddedData(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	out := filepath.Join(dir, "out.png")
	writeTestImage(t, src, 256, 256)

	s := New()
	if s.HasEmbeddedData(src) {
		t.Fatalf("unencoded image should not report embedded data")
	}

	if err := s.EmbedVector(src, testVector(64), VectorMeta{Version: 1, Dimension: 64}, out); err != nil {
		t.Fatalf("EmbedVector: %v", err)
	}
	if !s.HasEmbeddedData(out) {
		t.Fatalf("encoded image should report embedded data")
	}
}

func TestInsufficientCapacityRejected(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	out := filepath.Join(dir, "out.png")
	writeTestImage(t, src, 10, 10)

	s := New()
	err := s.EmbedVector(src, testVector(512), VectorMeta{Version: 1, Dimension: 512}, out)
	if err != ErrInsufficientCapacity {
		t.Fatalf("got %v, want ErrInsufficientCapacity", err)
	}
}

func TestMinImageSize(t *testing.T) {
	w, h := MinImageSize(512, 2)
	if w < 64 || h < 64 {
		t.Fatalf("MinImageSize = (%d, %d), want >= 64x64", w, h)
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "min.png")
	writeTestImage(t, src, w, h)
	meta := VectorMeta{Version: 1, Dimension: 512, Salt: "abc123", BlockNum: "block_1"}
	if err := New().EmbedVector(src, testVector(512), meta, filepath.Join(dir, "out.png")); err != nil {
		t.Fatalf("MinImageSize (%d, %d) cannot hold a 512-dim vector: %v", w, h, err)
	}
}

func TestInvalidConfigurationRejected(t *testing.T) {
	if _, err := NewWithBitsPerChannel(0); err != ErrInvalidConfiguration {
		t.Fatalf("got %v, want ErrInvalidConfiguration", err)
	}
	if _, err := NewWithBitsPerChannel(9); err != ErrInvalidConfiguration {
		t.Fatalf("got %v, want ErrInvalidConfiguration", err)
	}
}
