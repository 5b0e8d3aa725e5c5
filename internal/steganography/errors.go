package steganography

import "errors"

var (
	ErrInvalidConfiguration = errors.New("steganography: bits per channel must be between 1 and 8")
	ErrInvalidImage         = errors.New("steganography: could not decode image")
	ErrInsufficientCapacity = errors.New("steganography: image too small to hold payload")
	ErrNoEmbeddedData       = errors.New("steganography: no embedded data found")
	ErrCorruptedData        = errors.New("steganography: embedded payload is corrupted")
	ErrEncodingFailed       = errors.New("steganography: failed to encode metadata")
	ErrSaveFailed           = errors.New("steganography: failed to save image")
)
