// Package steganography hides a commitment's CLIP vector inside the target
// frame image using LSB embedding, so the vector and metadata behind a
// commitment can travel as an ordinary-looking image attached to a social post.
package steganography

import (
	"encoding/binary"
	"encoding/json"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
)

// magicHeader identifies an embedded payload at the start of the bitstream.
var magicHeader = []byte("RMCLIP")

// VectorMeta describes the vector embedded alongside a commitment image.
type VectorMeta struct {
	Version   uint8  `json:"version"`
	Dimension uint32 `json:"dimension"`
	Salt      string `json:"salt"`
	BlockNum  string `json:"block_num"`
}

// Steganographer embeds and extracts CLIP vectors from RGB images using the
// low bits of each color channel. Lower bits-per-channel values are less
// detectable but hold less data.
type Steganographer struct {
	bitsPerChannel uint8
}

// New returns a Steganographer using the default 2 bits per channel.
func New() *Steganographer {
	return &Steganographer{bitsPerChannel: 2}
}

// NewWithBitsPerChannel returns a Steganographer using a custom number of
// bits per channel (1-8). Higher values hide more data but are more
// detectable; 1-3 is recommended.
func NewWithBitsPerChannel(bits uint8) (*Steganographer, error) {
	if bits == 0 || bits > 8 {
		return nil, ErrInvalidConfiguration
	}
	return &Steganographer{bitsPerChannel: bits}, nil
}

// EmbedVector loads imagePath, embeds vector and meta into its low bits, and
// writes the result to outputPath as a PNG.
func (s *Steganographer) EmbedVector(imagePath string, vector []float64, meta VectorMeta, outputPath string) error {
	img, err := decodeRGBA(imagePath)
	if err != nil {
		return err
	}

	vectorBytes := vectorToBytes(vector)
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return ErrEncodingFailed
	}

	payload := make([]byte, 0, len(magicHeader)+4+len(metaBytes)+4+len(vectorBytes))
	payload = append(payload, magicHeader...)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(metaBytes)))
	payload = append(payload, metaBytes...)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(vectorBytes)))
	payload = append(payload, vectorBytes...)

	if len(payload) > s.Capacity(img) {
		return ErrInsufficientCapacity
	}
	if err := s.embedBytes(img, payload); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return ErrSaveFailed
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return ErrSaveFailed
	}
	return nil
}

// ExtractVector reads back a vector and its metadata from an image
// previously produced by EmbedVector.
func (s *Steganographer) ExtractVector(imagePath string) ([]float64, VectorMeta, error) {
	img, err := decodeRGBA(imagePath)
	if err != nil {
		return nil, VectorMeta{}, err
	}

	payload, err := s.extractBytes(img)
	if err != nil {
		return nil, VectorMeta{}, err
	}
	if len(payload) < len(magicHeader) || string(payload[:len(magicHeader)]) != string(magicHeader) {
		return nil, VectorMeta{}, ErrNoEmbeddedData
	}
	offset := len(magicHeader)

	if len(payload) < offset+4 {
		return nil, VectorMeta{}, ErrCorruptedData
	}
	metaLen := int(binary.LittleEndian.Uint32(payload[offset : offset+4]))
	offset += 4

	if len(payload) < offset+metaLen {
		return nil, VectorMeta{}, ErrCorruptedData
	}
	var meta VectorMeta
	if err := json.Unmarshal(payload[offset:offset+metaLen], &meta); err != nil {
		return nil, VectorMeta{}, ErrCorruptedData
	}
	offset += metaLen

	if len(payload) < offset+4 {
		return nil, VectorMeta{}, ErrCorruptedData
	}
	vectorLen := int(binary.LittleEndian.Uint32(payload[offset : offset+4]))
	offset += 4

	if len(payload) < offset+vectorLen {
		return nil, VectorMeta{}, ErrCorruptedData
	}
	vector, err := bytesToVector(payload[offset:offset+vectorLen], int(meta.Dimension))
	if err != nil {
		return nil, VectorMeta{}, err
	}
	return vector, meta, nil
}

// HasEmbeddedData reports whether an image contains a valid payload.
func (s *Steganographer) HasEmbeddedData(imagePath string) bool {
	_, _, err := s.ExtractVector(imagePath)
	return err == nil
}

// Capacity returns the maximum payload size, in bytes, img can hold at the
// configured bits-per-channel setting.
func (s *Steganographer) Capacity(img *image.RGBA) int {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()
	totalChannels := totalPixels * 3 // R, G, B (alpha untouched)
	bitsAvailable := totalChannels * int(s.bitsPerChannel)
	return bitsAvailable / 8
}

func vectorToBytes(vector []float64) []byte {
	out := make([]byte, 0, len(vector)*8)
	for _, v := range vector {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		out = append(out, buf[:]...)
	}
	return out
}

func bytesToVector(data []byte, dimension int) ([]float64, error) {
	if len(data) != dimension*8 {
		return nil, ErrCorruptedData
	}
	vector := make([]float64, dimension)
	for i := 0; i < dimension; i++ {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		vector[i] = math.Float64frombits(bits)
	}
	return vector, nil
}

func decodeRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrInvalidImage
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, ErrInvalidImage
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst, nil
}

func (s *Steganographer) embedBytes(img *image.RGBA, data []byte) error {
	bounds := img.Bounds()
	mask := byte(1<<s.bitsPerChannel) - 1
	clearMask := ^mask

	totalBits := len(data) * 8
	bitIndex := 0

outer:
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if bitIndex >= totalBits {
				break outer
			}
			px := img.RGBAAt(x, y)
			channels := [3]*uint8{&px.R, &px.G, &px.B}
			for _, ch := range channels {
				if bitIndex >= totalBits {
					break
				}
				var bitsToEmbed byte
				for i := uint8(0); i < s.bitsPerChannel; i++ {
					if bitIndex+int(i) >= totalBits {
						break
					}
					byteIdx := (bitIndex + int(i)) / 8
					bitOff := (bitIndex + int(i)) % 8
					dataBit := (data[byteIdx] >> bitOff) & 1
					bitsToEmbed |= dataBit << i
				}
				*ch = (*ch & clearMask) | (bitsToEmbed & mask)
				bitIndex += int(s.bitsPerChannel)
			}
			img.SetRGBA(x, y, px)
		}
	}

	if bitIndex < totalBits {
		return ErrInsufficientCapacity
	}
	return nil
}

func (s *Steganographer) extractBytes(img *image.RGBA) ([]byte, error) {
	bounds := img.Bounds()
	mask := byte(1<<s.bitsPerChannel) - 1
	minHeaderBytes := len(magicHeader) + 4 + 4
	minBitsNeeded := minHeaderBytes * 8

	var bits []byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := img.RGBAAt(x, y)
			channels := [3]uint8{px.R, px.G, px.B}
			for _, ch := range channels {
				channelBits := ch & mask
				for i := uint8(0); i < s.bitsPerChannel; i++ {
					if len(bits) >= minBitsNeeded {
						if need, ok := totalBitsNeeded(bits); ok && len(bits) >= need {
							return bitsToBytes(bits), nil
						}
					}
					bit := (channelBits >> i) & 1
					bits = append(bits, bit)
				}
			}
		}
	}
	return bitsToBytes(bits), nil
}

// totalBitsNeeded inspects the payload prefix already decoded from bits and
// reports the full payload length in bits once it's known. The vector
// length field only becomes readable after the (variable-length) metadata
// has been decoded, so the answer arrives in two steps; ok is false while
// more bits are still needed.
func totalBitsNeeded(bits []byte) (int, bool) {
	metaHeaderBytes := len(magicHeader) + 4
	if len(bits) < metaHeaderBytes*8 {
		return 0, false
	}
	header := bitsToBytes(bits[:metaHeaderBytes*8])
	if string(header[:len(magicHeader)]) != string(magicHeader) {
		return 0, false
	}
	metaLen := int(binary.LittleEndian.Uint32(header[len(magicHeader):]))

	vecHeaderBytes := metaHeaderBytes + metaLen + 4
	if len(bits) < vecHeaderBytes*8 {
		return 0, false
	}
	prefix := bitsToBytes(bits[:vecHeaderBytes*8])
	vectorLen := int(binary.LittleEndian.Uint32(prefix[metaHeaderBytes+metaLen:]))

	return (vecHeaderBytes + vectorLen) * 8, true
}

func bitsToBytes(bits []byte) []byte {
	out := make([]byte, 0, (len(bits)+7)/8)
	for i := 0; i < len(bits); i += 8 {
		end := i + 8
		if end > len(bits) {
			end = len(bits)
		}
		var b byte
		for j, bit := range bits[i:end] {
			b |= bit << j
		}
		out = append(out, b)
	}
	return out
}

// MinImageSize returns square-ish dimensions large enough to hold a vector
// of vectorLen float64 values at the given bits-per-channel setting.
func MinImageSize(vectorLen int, bitsPerChannel uint8) (int, int) {
	vectorBytes := vectorLen * 8
	const estimatedMetaBytes = 256
	const headerBytes = 6 + 8
	totalBytes := vectorBytes + estimatedMetaBytes + headerBytes
	totalBits := totalBytes * 8

	bitsPerPixel := 3 * int(bitsPerChannel)
	pixelsNeeded := (totalBits + bitsPerPixel - 1) / bitsPerPixel

	side := int(math.Ceil(math.Sqrt(float64(pixelsNeeded))))
	if side < 64 {
		side = 64
	}
	return side, side
}
