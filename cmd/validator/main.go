package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cliptions/validator/internal/api"
	"github.com/cliptions/validator/internal/broadcast"
	"github.com/cliptions/validator/internal/cliexit"
	"github.com/cliptions/validator/internal/config"
	"github.com/cliptions/validator/internal/embedding"
	"github.com/cliptions/validator/internal/orchestrator"
	"github.com/cliptions/validator/internal/processor"
	"github.com/cliptions/validator/internal/scoring"
	"github.com/cliptions/validator/internal/store"
)

// neutralBaselinePrompt is the "[UNUSED]"-style neutral prompt the baseline-
// adjusted scoring strategy measures every guess against, so a guess that is
// no more related to the target frame than generic filler text scores near
// zero instead of whatever constant offset cosine similarity happens to
// produce for unrelated text/image pairs.
const neutralBaselinePrompt = "an image"

func main() {
	if err := run(); err != nil {
		log.Printf("FATAL: %v", err)
		os.Exit(cliexit.Code(err))
	}
}

func run() error {
	log.Println("Starting Cliptions Validator (commit-reveal prediction market engine)...")

	// ─── Required Environment Variables ─────────────────────────────────
	// All credentials MUST come from environment variables. No fallback
	// defaults for security-sensitive values. Use a .env file for local
	// development: cp .env.example .env && edit .env
	// ────────────────────────────────────────────────────────────────────

	useLiveBroadcast := os.Getenv("BROADCAST_BACKEND") == "live"
	cfg := config.Load(useLiveBroadcast)

	paths := config.NewPathManager(cfg.DataDir)
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create data directory tree under %s: %w", cfg.DataDir, err)
	}

	blockStore := store.NewJSONBlockStore(paths.BlocksFile())

	auditDSN := os.Getenv("AUDIT_DATABASE_URL")
	var auditStore *store.AuditStore
	if auditDSN != "" {
		conn, err := store.ConnectAudit(context.Background(), auditDSN)
		if err != nil {
			log.Printf("Warning: failed to connect to audit Postgres, continuing without audit trail. Error: %v", err)
		} else {
			auditStore = conn
			defer auditStore.Close()
			if err := auditStore.InitSchema(context.Background()); err != nil {
				log.Printf("Warning: audit schema init failed: %v", err)
			}
		}
	} else {
		log.Println("AUDIT_DATABASE_URL not set — running without a Postgres audit trail (JSON store remains system of record)")
	}

	// Setup the WebSocket hub and the in-process broadcast test backend.
	// A live social-media Channel implementation would be substituted here
	// when BROADCAST_BACKEND=live; the validator only depends on the
	// broadcast.Channel interface, never the concrete backend.
	hub := broadcast.NewHub()
	go hub.Run()
	localChannel := broadcast.NewLocalChannel(hub)

	if useLiveBroadcast {
		log.Printf("BROADCAST_BACKEND=live requested, but no live social-media Channel is wired yet; " +
			"falling back to the in-process broadcast test backend.")
	}

	// Wire the block-lifecycle orchestrator: typed phase transitions
	// (blockengine) + verify/score/payout (processor), persisted through
	// blockStore and, when configured, mirrored into auditStore.
	deps, err := processorDependencies(cfg)
	if err != nil {
		return err
	}
	orch := orchestrator.New(blockStore, auditStore, localChannel, deps, paths)
	orch.LogResumeState()

	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	go orch.RunScheduler(schedulerCtx, 30*time.Second)

	r := api.SetupRouter(blockStore, localChannel, hub, orch)

	log.Printf("Validator running on :%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// processorDependencies wires the scoring strategy and payout defaults the
// orchestrator uses to finish a block. It defaults to the deterministic
// mock embedder; a production deployment swaps in a real CLIP backend by
// replacing the Embedder field, everything downstream (strategy, payout
// math) is unaffected.
func processorDependencies(cfg config.Config) (processor.Dependencies, error) {
	embedder := embedding.NewClipLikeMockEmbedder()
	baseline, err := embedder.TextEmbedding(context.Background(), neutralBaselinePrompt)
	if err != nil {
		return processor.Dependencies{}, fmt.Errorf("failed to compute baseline embedding: %w", err)
	}

	return processor.Dependencies{
		Embedder: embedder,
		Strategy: scoring.BaselineAdjusted{},
		Baseline: baseline,
		PayoutConfig: scoring.Config{
			PlatformFeePercentage: cfg.PlatformFeePercent,
			MinimumPlayers:        2,
		},
	}, nil
}
