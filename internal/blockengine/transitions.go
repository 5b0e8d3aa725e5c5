package blockengine

import (
	"context"
	"fmt"
	"time"

	"github.com/cliptions/validator/internal/broadcast"
)

// OpenCommitments announces the block and transitions it into
// CommitmentsOpen. The transition only commits once the announcement posts
// successfully — a broadcast-channel outage blocks progress rather than
// silently advancing the phase. The announcement post is returned so the
// caller can record its id: miners commit and reveal by replying to it, and
// the reveals-open transition publishes the frame into the same thread.
func OpenCommitments(ctx context.Context, b Block[Pending], commitmentDeadline time.Time, ch broadcast.Channel) (Block[CommitmentsOpen], broadcast.Post, error) {
	formatter := broadcast.NewAnnouncementFormatter()
	pool := &b.PrizePool
	text := formatter.FormatAnnouncement(broadcast.AnnouncementData{
		BlockNum:      b.BlockNum,
		StateName:     CommitmentsOpen{}.StateName(),
		TargetTime:    commitmentDeadline.Format(time.RFC3339),
		PrizePool:     pool,
		LivestreamURL: b.LivestreamURL,
	}, false)

	post, err := ch.Post(ctx, text)
	if err != nil {
		return Block[CommitmentsOpen]{}, broadcast.Post{}, fmt.Errorf("blockengine: open commitments announcement: %w", err)
	}

	b.CommitmentDeadline = &commitmentDeadline
	return carryOver[Pending, CommitmentsOpen](b), post, nil
}

// CloseCommitments announces that commitments are closed and transitions
// the block to CommitmentsClosed.
func CloseCommitments(ctx context.Context, b Block[CommitmentsOpen], ch broadcast.Channel) (Block[CommitmentsClosed], error) {
	formatter := broadcast.NewAnnouncementFormatter()
	text := formatter.FormatAnnouncement(broadcast.AnnouncementData{
		BlockNum:      b.BlockNum,
		StateName:     CommitmentsClosed{}.StateName(),
		TargetTime:    b.TargetTimestamp.Format(time.RFC3339),
		Message:       fmt.Sprintf("Block '%s': Commitments are now closed. Waiting for target time at %s.", b.BlockNum, b.TargetTimestamp.Format(time.RFC3339)),
		LivestreamURL: b.LivestreamURL,
	}, true)

	if _, err := ch.Post(ctx, text); err != nil {
		return Block[CommitmentsClosed]{}, fmt.Errorf("blockengine: close commitments announcement: %w", err)
	}

	return carryOver[CommitmentsOpen, CommitmentsClosed](b), nil
}

// CoerceCommitmentsClosed moves a block straight into CommitmentsClosed
// without posting the close-commitments announcement. It exists for
// resuming a block after a crash: the orchestrator loads a persisted block
// whose prior process already made the announcement, and re-emitting it
// here would duplicate the post.
func CoerceCommitmentsClosed(b Block[CommitmentsOpen]) Block[CommitmentsClosed] {
	return carryOver[CommitmentsOpen, CommitmentsClosed](b)
}

// CaptureFrame records the path of the captured target frame. It is a
// purely internal transition — no announcement is posted — and fails if
// the target timestamp has not yet passed.
func CaptureFrame(b Block[CommitmentsClosed], targetFramePath string, now time.Time) (Block[FrameCaptured], error) {
	if now.Before(b.TargetTimestamp) {
		return Block[FrameCaptured]{}, ErrTargetTimeNotReached
	}
	b.TargetFramePath = targetFramePath
	return carryOver[CommitmentsClosed, FrameCaptured](b), nil
}

// OpenReveals publishes the target frame and transitions the block to
// RevealsOpen. When parentPostID names the original commitments
// announcement, the frame is posted as an image reply into that thread so
// miners watching the announcement see it; with an empty parentPostID (the
// announcement id was lost, e.g. a cache wiped between restarts) it falls
// back to a standalone image post.
func OpenReveals(ctx context.Context, b Block[FrameCaptured], revealsDeadline time.Time, parentPostID string, ch broadcast.Channel) (Block[RevealsOpen], error) {
	if b.TargetFramePath == "" {
		return Block[RevealsOpen]{}, ErrFrameNotCaptured
	}

	formatter := broadcast.NewAnnouncementFormatter()
	text := formatter.FormatAnnouncement(broadcast.AnnouncementData{
		BlockNum:   b.BlockNum,
		StateName:  RevealsOpen{}.StateName(),
		TargetTime: revealsDeadline.Format(time.RFC3339),
		Message:    fmt.Sprintf("Block '%s': Target frame revealed! Reveals are open until %s.", b.BlockNum, revealsDeadline.Format(time.RFC3339)),
	}, true)

	var err error
	if parentPostID != "" {
		_, err = ch.ReplyWithImage(ctx, text, parentPostID, b.TargetFramePath)
	} else {
		_, err = ch.PostWithImage(ctx, text, b.TargetFramePath)
	}
	if err != nil {
		return Block[RevealsOpen]{}, fmt.Errorf("blockengine: open reveals announcement: %w", err)
	}

	b.RevealsDeadline = &revealsDeadline
	return carryOver[FrameCaptured, RevealsOpen](b), nil
}

// CloseReveals announces that reveals are closed and transitions the block
// to RevealsClosed, the phase in which the processor computes scores and
// ranks.
func CloseReveals(ctx context.Context, b Block[RevealsOpen], ch broadcast.Channel) (Block[RevealsClosed], error) {
	formatter := broadcast.NewAnnouncementFormatter()
	text := formatter.FormatAnnouncement(broadcast.AnnouncementData{
		BlockNum:  b.BlockNum,
		StateName: RevealsClosed{}.StateName(),
		Message:   fmt.Sprintf("Block '%s': Reveals are now closed. Scoring in progress.", b.BlockNum),
	}, true)

	if _, err := ch.Post(ctx, text); err != nil {
		return Block[RevealsClosed]{}, fmt.Errorf("blockengine: close reveals announcement: %w", err)
	}

	return carryOver[RevealsOpen, RevealsClosed](b), nil
}

// BeginPayouts transitions a scored block into Payouts, where payout
// amounts are computed and distributed.
func BeginPayouts(b Block[RevealsClosed]) Block[Payouts] {
	return carryOver[RevealsClosed, Payouts](b)
}

// FinishPayouts announces the completed results and transitions the block
// to its terminal Finished phase.
func FinishPayouts(ctx context.Context, b Block[Payouts], resultsMessage string, ch broadcast.Channel) (Block[Finished], error) {
	formatter := broadcast.NewAnnouncementFormatter()
	text := formatter.FormatAnnouncement(broadcast.AnnouncementData{
		BlockNum:  b.BlockNum,
		StateName: Finished{}.StateName(),
		Message:   resultsMessage,
	}, true)

	if _, err := ch.Post(ctx, text); err != nil {
		return Block[Finished]{}, fmt.Errorf("blockengine: finish payouts announcement: %w", err)
	}

	return carryOver[Payouts, Finished](b), nil
}

// Resume restores a block's typed phase from a persisted state name, the
// escape hatch needed when a crash leaves a block's phase only recorded as
// a string in the JSON store. It performs no validation beyond the name
// lookup: callers are expected to have persisted a phase that was
// legitimately reached.
func Resume(b Block[Pending], phase string) (any, error) {
	switch phase {
	case "Pending":
		return b, nil
	case "CommitmentsOpen":
		return carryOver[Pending, CommitmentsOpen](b), nil
	case "CommitmentsClosed":
		return carryOver[Pending, CommitmentsClosed](b), nil
	case "FrameCaptured":
		return carryOver[Pending, FrameCaptured](b), nil
	case "RevealsOpen":
		return carryOver[Pending, RevealsOpen](b), nil
	case "RevealsClosed":
		return carryOver[Pending, RevealsClosed](b), nil
	case "Payouts":
		return carryOver[Pending, Payouts](b), nil
	case "Finished":
		return carryOver[Pending, Finished](b), nil
	default:
		return nil, fmt.Errorf("blockengine: unknown phase %q", phase)
	}
}
