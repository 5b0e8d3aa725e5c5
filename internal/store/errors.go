package store

import (
	"errors"

	"github.com/cliptions/validator/internal/block"
)

var (
	// ErrBlockNotFound aliases the data model's sentinel so callers can
	// match with errors.Is regardless of which layer reported the miss.
	ErrBlockNotFound = block.ErrBlockNotFound

	ErrCorruptDB = errors.New("store: blocks database is corrupt")
)
