// Package blockengine implements the block lifecycle as a typestate: each
// phase is a distinct Go type parameter, so a transition method is only
// reachable from the state it is actually defined on and illegal sequencing
// (e.g. closing reveals before they ever opened) is a compile error rather
// than a runtime check.
package blockengine

// Pending marks a block that has not yet opened commitments.
type Pending struct{}

// CommitmentsOpen marks a block currently accepting participant commitments.
type CommitmentsOpen struct{}

// CommitmentsClosed marks a block no longer accepting commitments, waiting
// for the target timestamp.
type CommitmentsClosed struct{}

// FrameCaptured marks a block whose target frame has been captured and is
// ready to be revealed.
type FrameCaptured struct{}

// RevealsOpen marks a block currently accepting guess/salt reveals.
type RevealsOpen struct{}

// RevealsClosed marks a block no longer accepting reveals, ready for scoring.
type RevealsClosed struct{}

// Payouts marks a block whose payouts are being computed and distributed.
type Payouts struct{}

// Finished marks a block whose full lifecycle is complete.
type Finished struct{}

// StateMarker names a lifecycle phase for logging and display.
type StateMarker interface {
	StateName() string
}

func (Pending) StateName() string           { return "Pending" }
func (CommitmentsOpen) StateName() string   { return "CommitmentsOpen" }
func (CommitmentsClosed) StateName() string { return "CommitmentsClosed" }
func (FrameCaptured) StateName() string     { return "FrameCaptured" }
func (RevealsOpen) StateName() string       { return "RevealsOpen" }
func (RevealsClosed) StateName() string     { return "RevealsClosed" }
func (Payouts) StateName() string           { return "Payouts" }
func (Finished) StateName() string          { return "Finished" }
