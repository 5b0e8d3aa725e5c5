// Package orchestrator drives a block through its full lifecycle: it is the
// glue between the compile-time-checked phase transitions in blockengine,
// the verify/score/payout pipeline in processor, and the JSON store that
// persists the result of each step. Nothing outside this package is allowed
// to advance a block's Status field directly — every mutation here either
// goes through blockengine (for a phase change that announces something) or
// block.Block's own guarded mutators (for data entry within a phase).
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cliptions/validator/internal/block"
	"github.com/cliptions/validator/internal/blockengine"
	"github.com/cliptions/validator/internal/broadcast"
	"github.com/cliptions/validator/internal/config"
	"github.com/cliptions/validator/internal/processor"
	"github.com/cliptions/validator/internal/store"
)

// collectPageSize is how many replies per page the orchestrator requests
// when collecting miner submissions from the broadcast channel.
const collectPageSize = 100

// Orchestrator bundles every collaborator needed to drive a block from
// creation through finished payouts.
type Orchestrator struct {
	store    *store.JSONBlockStore
	audit    *store.AuditStore // optional; nil disables audit recording
	channel  broadcast.Channel
	deps     processor.Dependencies
	paths    *config.PathManager // optional; nil disables collection caches
	lastPost *store.LastPostCache
}

// New returns an Orchestrator. audit may be nil to run without a Postgres
// audit trail; paths may be nil to run without the last-post cache and the
// collected-submission cache files (reveals then fall back to a standalone
// frame post instead of a threaded reply).
func New(st *store.JSONBlockStore, audit *store.AuditStore, channel broadcast.Channel, deps processor.Dependencies, paths *config.PathManager) *Orchestrator {
	o := &Orchestrator{store: st, audit: audit, channel: channel, deps: deps, paths: paths}
	if paths != nil {
		o.lastPost = store.NewLastPostCache(paths.LastPostFile())
	}
	return o
}

// announcementPostID returns the cached commitments-announcement post id
// for blockNum, or "" if no cache is wired or no id was recorded.
func (o *Orchestrator) announcementPostID(blockNum string) string {
	if o.lastPost == nil {
		return ""
	}
	id, err := o.lastPost.Get(blockNum)
	if err != nil {
		log.Printf("orchestrator: failed to read last-post cache for %s: %v", blockNum, err)
		return ""
	}
	return id
}

func (o *Orchestrator) recordPhase(ctx context.Context, blockNum, phase string) {
	if o.audit == nil {
		return
	}
	if err := o.audit.RecordPhaseEvent(ctx, blockNum, phase); err != nil {
		log.Printf("orchestrator: failed to record phase event for %s/%s: %v", blockNum, phase, err)
	}
}

// CreateBlock opens a new block directly into CommitmentsOpen: a block with
// nothing to commit to has no reason to sit in Pending, so creation and the
// opening announcement happen as one step.
func (o *Orchestrator) CreateBlock(ctx context.Context, blockNum, description, livestreamURL string, targetTimestamp, commitmentDeadline time.Time, prizePool float64) (block.Block, error) {
	pending, err := blockengine.NewPending(blockNum, description, livestreamURL, targetTimestamp, prizePool)
	if err != nil {
		return block.Block{}, err
	}

	open, announce, err := blockengine.OpenCommitments(ctx, pending, commitmentDeadline, o.channel)
	if err != nil {
		return block.Block{}, err
	}

	b := block.New(blockNum, description, livestreamURL, targetTimestamp, prizePool)
	b.CommitmentDeadline = &commitmentDeadline
	b.Status = block.StatusCommitmentsOpen
	if err := o.store.Save(b); err != nil {
		return block.Block{}, err
	}
	if o.lastPost != nil {
		if err := o.lastPost.Record(blockNum, announce.ID); err != nil {
			log.Printf("orchestrator: failed to cache announcement post id for %s: %v", blockNum, err)
		}
	}
	o.recordPhase(ctx, blockNum, open.StateName())
	return b, nil
}

// SubmitCommitment records a participant's commitment hash. Only valid while
// the block's commitments are open.
func (o *Orchestrator) SubmitCommitment(blockNum, socialID, username, commitmentHash string) (block.Block, error) {
	b, err := o.store.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if err := b.AddParticipant(block.NewParticipant(socialID, username, commitmentHash)); err != nil {
		return block.Block{}, err
	}
	if err := o.store.Save(b); err != nil {
		return block.Block{}, err
	}
	return b, nil
}

// CloseCommitments stops accepting new commitments and announces the close.
func (o *Orchestrator) CloseCommitments(ctx context.Context, blockNum string) (block.Block, error) {
	b, err := o.store.LoadCommitmentsOpen(blockNum)
	if err != nil {
		return block.Block{}, err
	}

	typed := blockengine.FromFields[blockengine.CommitmentsOpen](
		b.BlockNum, b.Description, b.LivestreamURL, b.CreatedAt, b.TargetTimestamp,
		b.PrizePool, b.TargetFramePath, b.CommitmentDeadline, b.RevealsDeadline,
	)
	closed, err := blockengine.CloseCommitments(ctx, typed, o.channel)
	if err != nil {
		return block.Block{}, err
	}

	b.Status = block.StatusCommitmentsClosed
	if err := o.store.Save(b); err != nil {
		return block.Block{}, err
	}
	o.recordPhase(ctx, blockNum, closed.StateName())
	return b, nil
}

// CaptureFrame records the path of the captured target frame once the
// target timestamp has passed. No announcement is posted for this step; the
// frame is only revealed once OpenReveals runs.
func (o *Orchestrator) CaptureFrame(ctx context.Context, blockNum, framePath string, now time.Time) (block.Block, error) {
	b, err := o.store.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if b.Status != block.StatusCommitmentsClosed {
		return block.Block{}, fmt.Errorf("%w: block %s is %s, want CommitmentsClosed", ErrWrongPhase, blockNum, b.Status)
	}

	typed := blockengine.FromFields[blockengine.CommitmentsClosed](
		b.BlockNum, b.Description, b.LivestreamURL, b.CreatedAt, b.TargetTimestamp,
		b.PrizePool, b.TargetFramePath, b.CommitmentDeadline, b.RevealsDeadline,
	)
	captured, err := blockengine.CaptureFrame(typed, framePath, now)
	if err != nil {
		return block.Block{}, err
	}

	b.TargetFramePath = captured.TargetFramePath
	b.Status = block.StatusFrameCaptured
	if err := o.store.Save(b); err != nil {
		return block.Block{}, err
	}
	o.recordPhase(ctx, blockNum, captured.StateName())
	return b, nil
}

// OpenReveals publishes the captured frame and opens reveal collection.
func (o *Orchestrator) OpenReveals(ctx context.Context, blockNum string, revealsDeadline time.Time) (block.Block, error) {
	b, err := o.store.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if b.Status != block.StatusFrameCaptured {
		return block.Block{}, fmt.Errorf("%w: block %s is %s, want FrameCaptured", ErrWrongPhase, blockNum, b.Status)
	}

	typed := blockengine.FromFields[blockengine.FrameCaptured](
		b.BlockNum, b.Description, b.LivestreamURL, b.CreatedAt, b.TargetTimestamp,
		b.PrizePool, b.TargetFramePath, b.CommitmentDeadline, b.RevealsDeadline,
	)
	open, err := blockengine.OpenReveals(ctx, typed, revealsDeadline, o.announcementPostID(blockNum), o.channel)
	if err != nil {
		return block.Block{}, err
	}

	b.RevealsDeadline = &revealsDeadline
	b.Status = block.StatusRevealsOpen
	if err := o.store.Save(b); err != nil {
		return block.Block{}, err
	}
	o.recordPhase(ctx, blockNum, open.StateName())
	return b, nil
}

// SubmitReveal records a participant's revealed guess text and salt.
func (o *Orchestrator) SubmitReveal(blockNum, socialID, text, salt string) (block.Block, error) {
	b, err := o.store.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if err := b.SubmitReveal(socialID, text, salt); err != nil {
		return block.Block{}, err
	}
	if err := o.store.Save(b); err != nil {
		return block.Block{}, err
	}
	return b, nil
}

// CloseReveals stops accepting reveals and announces that scoring is about
// to start.
func (o *Orchestrator) CloseReveals(ctx context.Context, blockNum string) (block.Block, error) {
	b, err := o.store.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if b.Status != block.StatusRevealsOpen {
		return block.Block{}, fmt.Errorf("%w: block %s is %s, want RevealsOpen", ErrWrongPhase, blockNum, b.Status)
	}

	typed := blockengine.FromFields[blockengine.RevealsOpen](
		b.BlockNum, b.Description, b.LivestreamURL, b.CreatedAt, b.TargetTimestamp,
		b.PrizePool, b.TargetFramePath, b.CommitmentDeadline, b.RevealsDeadline,
	)
	closed, err := blockengine.CloseReveals(ctx, typed, o.channel)
	if err != nil {
		return block.Block{}, err
	}

	b.Status = block.StatusRevealsClosed
	if err := o.store.Save(b); err != nil {
		return block.Block{}, err
	}
	o.recordPhase(ctx, blockNum, closed.StateName())
	return b, nil
}

// FinishBlock runs the verify/score/payout pipeline over a RevealsClosed
// block, then announces and persists the final, Finished result.
func (o *Orchestrator) FinishBlock(ctx context.Context, blockNum string) (block.Block, error) {
	b, err := o.store.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if b.Status != block.StatusRevealsClosed {
		return block.Block{}, fmt.Errorf("%w: block %s is %s, want RevealsClosed", ErrWrongPhase, blockNum, b.Status)
	}

	typed := blockengine.FromFields[blockengine.RevealsClosed](
		b.BlockNum, b.Description, b.LivestreamURL, b.CreatedAt, b.TargetTimestamp,
		b.PrizePool, b.TargetFramePath, b.CommitmentDeadline, b.RevealsDeadline,
	)
	payouts := blockengine.BeginPayouts(typed)

	// Each block carries its own prize pool, fixed at creation; the rest of
	// the payout configuration (platform fee, minimum players) is shared
	// validator-wide.
	deps := o.deps
	deps.PayoutConfig.PrizePool = b.PrizePool

	finishedData, err := processor.Process(ctx, b, deps)
	if err != nil {
		return block.Block{}, err
	}

	msg := fmt.Sprintf("Block '%s' finished. Total payout: %.6f across %d participants.",
		blockNum, finishedData.TotalPayout, len(finishedData.VerifiedParticipants()))
	finished, err := blockengine.FinishPayouts(ctx, payouts, msg, o.channel)
	if err != nil {
		return block.Block{}, err
	}

	if err := o.store.Save(finishedData); err != nil {
		return block.Block{}, err
	}
	o.recordPhase(ctx, blockNum, finished.StateName())

	if o.audit != nil {
		records := make([]store.PayoutRecord, 0, len(finishedData.Participants))
		for _, p := range finishedData.VerifiedParticipants() {
			records = append(records, store.PayoutRecord{
				SocialID: p.SocialID,
				Rank:     p.Rank,
				Score:    p.Score,
				Payout:   p.Payout,
			})
		}
		if err := o.audit.RecordPayouts(ctx, blockNum, records); err != nil {
			log.Printf("orchestrator: failed to record payouts for %s: %v", blockNum, err)
		}
	}

	return finishedData, nil
}
