package blockengine

import (
	"context"
	"testing"
	"time"

	"github.com/cliptions/validator/internal/broadcast"
)

func TestFullLifecycleTransitions(t *testing.T) {
	ch := broadcast.NewNopChannel()
	ctx := context.Background()
	now := time.Now().UTC()

	pending, err := NewPending("block_001", "test block", "https://stream.example/1", now.Add(-time.Hour), 100.0)
	if err != nil {
		t.Fatalf("NewPending: %v", err)
	}
	if pending.StateName() != "Pending" {
		t.Fatalf("StateName = %q, want Pending", pending.StateName())
	}

	open, announce, err := OpenCommitments(ctx, pending, now.Add(time.Hour), ch)
	if err != nil {
		t.Fatalf("OpenCommitments: %v", err)
	}
	if open.StateName() != "CommitmentsOpen" {
		t.Fatalf("StateName = %q, want CommitmentsOpen", open.StateName())
	}
	if announce.ID == "" {
		t.Fatalf("expected the commitments announcement post to be returned")
	}

	closed, err := CloseCommitments(ctx, open, ch)
	if err != nil {
		t.Fatalf("CloseCommitments: %v", err)
	}

	captured, err := CaptureFrame(closed, "/data/frames/block_001.png", now)
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if captured.TargetFramePath != "/data/frames/block_001.png" {
		t.Fatalf("TargetFramePath not carried over")
	}

	revealsOpen, err := OpenReveals(ctx, captured, now.Add(2*time.Hour), announce.ID, ch)
	if err != nil {
		t.Fatalf("OpenReveals: %v", err)
	}
	frameReplies, err := ch.SearchReplies(ctx, announce.ID, 10)
	if err != nil {
		t.Fatalf("SearchReplies: %v", err)
	}
	if len(frameReplies) != 1 || frameReplies[0].ImagePath == "" {
		t.Fatalf("expected the frame to be published as an image reply to the announcement, got %v", frameReplies)
	}

	revealsClosed, err := CloseReveals(ctx, revealsOpen, ch)
	if err != nil {
		t.Fatalf("CloseReveals: %v", err)
	}
	payouts := BeginPayouts(revealsClosed)

	finished, err := FinishPayouts(ctx, payouts, "Block finished, payouts distributed.", ch)
	if err != nil {
		t.Fatalf("FinishPayouts: %v", err)
	}
	if finished.StateName() != "Finished" {
		t.Fatalf("StateName = %q, want Finished", finished.StateName())
	}

	if len(ch.Posts()) != 5 {
		t.Fatalf("expected 5 announcements posted, got %d", len(ch.Posts()))
	}
}

func TestCaptureFrameRejectsBeforeTargetTime(t *testing.T) {
	ch := broadcast.NewNopChannel()
	ctx := context.Background()
	now := time.Now().UTC()

	pending, _ := NewPending("block_002", "desc", "", now.Add(time.Hour), 100.0)
	open, _, _ := OpenCommitments(ctx, pending, now.Add(30*time.Minute), ch)
	closed, _ := CloseCommitments(ctx, open, ch)

	if _, err := CaptureFrame(closed, "/data/frames/block_002.png", now); err != ErrTargetTimeNotReached {
		t.Fatalf("got %v, want ErrTargetTimeNotReached", err)
	}
}

func TestOpenRevealsRequiresCapturedFrame(t *testing.T) {
	ch := broadcast.NewNopChannel()
	ctx := context.Background()
	now := time.Now().UTC()

	pending, _ := NewPending("block_003", "desc", "", now.Add(-time.Hour), 100.0)
	open, _, _ := OpenCommitments(ctx, pending, now.Add(-30*time.Minute), ch)
	closed, _ := CloseCommitments(ctx, open, ch)
	captured, err := CaptureFrame(closed, "", now)
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}

	if _, err := OpenReveals(ctx, captured, now.Add(time.Hour), "", ch); err != ErrFrameNotCaptured {
		t.Fatalf("got %v, want ErrFrameNotCaptured", err)
	}
}

func TestNewCommitmentsOpenSkipsPending(t *testing.T) {
	now := time.Now().UTC()
	b, err := NewCommitmentsOpen("block_004", "desc", "url", now.Add(time.Hour), now.Add(30*time.Minute), 100.0)
	if err != nil {
		t.Fatalf("NewCommitmentsOpen: %v", err)
	}
	if b.StateName() != "CommitmentsOpen" {
		t.Fatalf("StateName = %q, want CommitmentsOpen", b.StateName())
	}
	if b.CommitmentDeadline == nil {
		t.Fatalf("expected CommitmentDeadline to be set")
	}
}

func TestNewPendingRejectsEmptyBlockNum(t *testing.T) {
	if _, err := NewPending("", "desc", "url", time.Now(), 100.0); err != ErrInvalidBlockNum {
		t.Fatalf("got %v, want ErrInvalidBlockNum", err)
	}
}

func TestResumeReconstructsPhase(t *testing.T) {
	pending, _ := NewPending("block_005", "desc", "url", time.Now(), 100.0)
	resumed, err := Resume(pending, "RevealsOpen")
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	b, ok := resumed.(Block[RevealsOpen])
	if !ok {
		t.Fatalf("Resume did not return Block[RevealsOpen], got %T", resumed)
	}
	if b.BlockNum != "block_005" {
		t.Fatalf("BlockNum not carried over: %q", b.BlockNum)
	}
}

func TestResumeAfterRestartSkipsDuplicateAnnouncement(t *testing.T) {
	ch := broadcast.NewNopChannel()
	ctx := context.Background()
	now := time.Now().UTC()

	pending, _ := NewPending("block_007", "desc", "https://stream.example/1", now.Add(time.Hour), 100.0)
	open, announce, err := OpenCommitments(ctx, pending, now.Add(30*time.Minute), ch)
	if err != nil {
		t.Fatalf("OpenCommitments: %v", err)
	}

	// Simulate a restart: the process reloads the persisted block, already
	// in CommitmentsOpen, then coerces it to CommitmentsClosed without
	// re-announcing since a prior process already closed commitments.
	closed := CoerceCommitmentsClosed(open)

	captured, err := CaptureFrame(closed, "/data/frames/block_007.png", now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}

	if _, err := OpenReveals(ctx, captured, now.Add(3*time.Hour), announce.ID, ch); err != nil {
		t.Fatalf("OpenReveals: %v", err)
	}

	if len(ch.Posts()) != 2 {
		t.Fatalf("expected exactly 2 broadcast calls (open commitments + open reveals), got %d", len(ch.Posts()))
	}
}

func TestResumeRejectsUnknownPhase(t *testing.T) {
	pending, _ := NewPending("block_006", "desc", "url", time.Now(), 100.0)
	if _, err := Resume(pending, "NotAPhase"); err == nil {
		t.Fatalf("expected error for unknown phase")
	}
}
