package orchestrator

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/cliptions/validator/internal/block"
	"github.com/cliptions/validator/internal/broadcast"
)

// CollectCommitments pages through the replies to the block's commitments
// announcement, parses each miner commitment (digest + wallet), and
// registers every new participant on the block. Replies that don't parse,
// or that duplicate an already-registered social id, are skipped — a
// malformed reply is a miner's problem, not a reason to abort collection.
// It returns how many participants were added.
func (o *Orchestrator) CollectCommitments(ctx context.Context, blockNum string) (int, error) {
	b, err := o.store.LoadCommitmentsOpen(blockNum)
	if err != nil {
		return 0, err
	}

	announceID := o.announcementPostID(blockNum)
	if announceID == "" {
		return 0, ErrNoAnnouncementPost
	}

	replies, err := o.channel.SearchReplies(ctx, announceID, collectPageSize)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, r := range replies {
		c, err := broadcast.ParseCommitment(r.Text)
		if err != nil {
			continue
		}
		p := block.NewParticipant(r.AuthorID, r.AuthorID, c.Hash)
		p.Wallet = c.Wallet
		if err := b.AddParticipant(p); err != nil {
			continue
		}
		added++
	}

	if added > 0 {
		if err := o.store.Save(b); err != nil {
			return 0, err
		}
	}
	if o.paths != nil {
		o.writeCollectionCache(o.paths.CommitmentsDir(), blockNum, replies)
	}
	log.Printf("orchestrator: collected %d new commitments for block %s (%d replies scanned)", added, blockNum, len(replies))
	return added, nil
}

// CollectReveals pages through the same announcement thread for reveal
// replies (Guess/Salt pairs), matching each reply's author to a registered
// participant and recording the revealed text and salt. Verification
// against the commitment happens later, in the processor — collection only
// records what was said, so a bogus reveal simply fails verification
// instead of blocking the honest ones. It returns how many reveals were
// recorded.
func (o *Orchestrator) CollectReveals(ctx context.Context, blockNum string) (int, error) {
	b, err := o.store.Load(blockNum)
	if err != nil {
		return 0, err
	}
	if b.Status != block.StatusRevealsOpen {
		return 0, block.ErrRevealsNotOpen
	}

	announceID := o.announcementPostID(blockNum)
	if announceID == "" {
		return 0, ErrNoAnnouncementPost
	}

	replies, err := o.channel.SearchReplies(ctx, announceID, collectPageSize)
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, r := range replies {
		reveal, err := broadcast.ParseReveal(r.Text)
		if err != nil {
			continue
		}
		if err := b.SubmitReveal(r.AuthorID, reveal.Guess, reveal.Salt); err != nil {
			continue
		}
		recorded++
	}

	if recorded > 0 {
		if err := o.store.Save(b); err != nil {
			return 0, err
		}
	}
	if o.paths != nil {
		o.writeCollectionCache(o.paths.RevealsDir(), blockNum, replies)
	}
	log.Printf("orchestrator: collected %d reveals for block %s (%d replies scanned)", recorded, blockNum, len(replies))
	return recorded, nil
}

// writeCollectionCache snapshots the raw replies a collection pass saw into
// a per-block JSON file, so an operator can audit what miners actually
// posted even after the block store has reduced it to verified/unverified.
// Failures are logged, not propagated — the cache is a convenience, never
// the system of record.
func (o *Orchestrator) writeCollectionCache(dir, blockNum string, replies []broadcast.Post) {
	payload, err := json.MarshalIndent(replies, "", "  ")
	if err != nil {
		log.Printf("orchestrator: failed to marshal collection cache for %s: %v", blockNum, err)
		return
	}
	path := filepath.Join(dir, blockNum+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		log.Printf("orchestrator: failed to write collection cache %s: %v", path, err)
	}
}
