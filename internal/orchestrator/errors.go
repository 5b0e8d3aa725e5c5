package orchestrator

import "errors"

// Errors returned by the orchestrator on top of whatever the underlying
// block, blockengine or store package already reports.
var (
	ErrWrongPhase         = errors.New("orchestrator: block is not in the expected phase for this operation")
	ErrNoAnnouncementPost = errors.New("orchestrator: no announcement post id recorded for this block")
)
