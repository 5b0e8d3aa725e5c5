package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditStore is a supplementary, non-authoritative record of block lifecycle
// events in Postgres. JSONBlockStore remains the system of record; AuditStore
// exists purely so operators can run SQL queries and reporting against
// history that JSONBlockStore, being a single current-state file, doesn't
// retain.
type AuditStore struct {
	pool *pgxpool.Pool
}

// ConnectAudit opens a pgx connection pool and verifies it with a ping.
func ConnectAudit(ctx context.Context, connStr string) (*AuditStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("store: unable to connect to audit database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("store: audit database ping failed: %w", err)
	}
	log.Println("store: connected to audit database")
	return &AuditStore{pool: pool}, nil
}

// Close releases the connection pool.
func (s *AuditStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the audit tables if they don't already exist.
func (s *AuditStore) InitSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS block_phase_events (
	id BIGSERIAL PRIMARY KEY,
	block_num TEXT NOT NULL,
	phase TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_block_phase_events_block_num ON block_phase_events (block_num);

CREATE TABLE IF NOT EXISTS payout_events (
	id BIGSERIAL PRIMARY KEY,
	block_num TEXT NOT NULL,
	social_id TEXT NOT NULL,
	rank INT NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	payout DOUBLE PRECISION NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (block_num, social_id)
);
`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: failed to initialize audit schema: %w", err)
	}
	return nil
}

// RecordPhaseEvent appends a lifecycle transition to the audit log.
func (s *AuditStore) RecordPhaseEvent(ctx context.Context, blockNum, phase string) error {
	const sql = `INSERT INTO block_phase_events (block_num, phase) VALUES ($1, $2)`
	_, err := s.pool.Exec(ctx, sql, blockNum, phase)
	return err
}

// PayoutRecord is one participant's final standing, persisted for reporting.
type PayoutRecord struct {
	SocialID string
	Rank     int
	Score    float64
	Payout   float64
}

// RecordPayouts persists the final ranking for a finished block in a single
// transaction, upserting on (block_num, social_id) so a re-run after a crash
// recovery doesn't duplicate rows.
func (s *AuditStore) RecordPayouts(ctx context.Context, blockNum string, records []PayoutRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const sql = `
		INSERT INTO payout_events (block_num, social_id, rank, score, payout)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (block_num, social_id) DO UPDATE
		SET rank = EXCLUDED.rank, score = EXCLUDED.score, payout = EXCLUDED.payout, recorded_at = NOW()
	`
	for _, r := range records {
		if _, err := tx.Exec(ctx, sql, blockNum, r.SocialID, r.Rank, r.Score, r.Payout); err != nil {
			return fmt.Errorf("store: failed to insert payout event: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Pool exposes the underlying connection pool for callers that need direct
// access.
func (s *AuditStore) Pool() *pgxpool.Pool {
	return s.pool
}
