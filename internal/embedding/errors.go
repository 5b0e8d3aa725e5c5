package embedding

import "errors"

var (
	ErrInvalidDimensions = errors.New("embedding: vectors have mismatched dimensions")
	ErrImageProcessing   = errors.New("embedding: image could not be processed")
	ErrModelUnavailable  = errors.New("embedding: model backend unavailable")
	ErrEmptyVector       = errors.New("embedding: vector is empty")
)
