package blockengine

import "errors"

var (
	ErrTargetTimeNotReached = errors.New("blockengine: target timestamp has not yet been reached")
	ErrFrameNotCaptured     = errors.New("blockengine: target frame path is not set")
	ErrInvalidBlockNum      = errors.New("blockengine: block number must be non-empty")
)
