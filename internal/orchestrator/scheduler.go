package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/cliptions/validator/internal/block"
)

// RunScheduler polls every block on interval and auto-advances the two
// transitions that are driven purely by a deadline passing rather than an
// external event: closing commitments once the commitment deadline lapses,
// and closing reveals (then finishing the block) once the reveals deadline
// lapses. CaptureFrame and OpenReveals still require an explicit call, since
// the frame path and reveals deadline aren't things the scheduler can invent.
//
// This also doubles as the failure-recovery path: on restart, nothing
// replays — every block's Status field in the JSON store already records
// its current phase, so the scheduler and the HTTP handlers simply resume
// driving it forward from wherever it was left.
func (o *Orchestrator) RunScheduler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.tick(ctx)
		}
	}
}

func (o *Orchestrator) tick(ctx context.Context) {
	blockNums, err := o.store.List()
	if err != nil {
		log.Printf("orchestrator: scheduler failed to list blocks: %v", err)
		return
	}

	now := time.Now().UTC()
	for _, num := range blockNums {
		b, err := o.store.Load(num)
		if err != nil {
			log.Printf("orchestrator: scheduler failed to load block %s: %v", num, err)
			continue
		}

		switch b.Status {
		case block.StatusCommitmentsOpen:
			if b.CommitmentDeadline != nil && now.After(*b.CommitmentDeadline) {
				if _, err := o.CollectCommitments(ctx, num); err != nil && err != ErrNoAnnouncementPost {
					log.Printf("orchestrator: scheduler failed to collect commitments for %s: %v", num, err)
				}
				if _, err := o.CloseCommitments(ctx, num); err != nil {
					log.Printf("orchestrator: scheduler failed to close commitments for %s: %v", num, err)
				}
			}
		case block.StatusRevealsOpen:
			if b.RevealsDeadline != nil && now.After(*b.RevealsDeadline) {
				// Sweep the announcement thread one last time before closing,
				// so reveals posted on the channel but never pushed through
				// the API still count. Collection failure isn't fatal: the
				// block still closes on schedule.
				if _, err := o.CollectReveals(ctx, num); err != nil && err != ErrNoAnnouncementPost {
					log.Printf("orchestrator: scheduler failed to collect reveals for %s: %v", num, err)
				}
				if _, err := o.CloseReveals(ctx, num); err != nil {
					log.Printf("orchestrator: scheduler failed to close reveals for %s: %v", num, err)
					continue
				}
				if _, err := o.FinishBlock(ctx, num); err != nil {
					log.Printf("orchestrator: scheduler failed to finish block %s: %v", num, err)
				}
			}
		}
	}
}

// LogResumeState reports every non-finished block's current phase at
// startup, so an operator watching logs can see exactly where each block
// was left before the crash or restart.
func (o *Orchestrator) LogResumeState() {
	blockNums, err := o.store.List()
	if err != nil {
		log.Printf("orchestrator: failed to list blocks for resume: %v", err)
		return
	}
	for _, num := range blockNums {
		b, err := o.store.Load(num)
		if err != nil {
			log.Printf("orchestrator: failed to load block %s for resume: %v", num, err)
			continue
		}
		if b.Status == block.StatusFinished {
			continue
		}
		log.Printf("orchestrator: resuming block %s from phase %s", num, b.Status)
	}
}
