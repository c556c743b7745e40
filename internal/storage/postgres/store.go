package postgres

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"pythscope/internal/model"
)

// Schema creates the snapshot table when it does not exist.
const Schema = `
CREATE TABLE IF NOT EXISTS price_snapshots (
	run_id        UUID        NOT NULL,
	account       TEXT        NOT NULL,
	symbol        TEXT        NOT NULL DEFAULT '',
	fetched_at    TIMESTAMPTZ NOT NULL,
	exponent      INTEGER     NOT NULL,
	price         NUMERIC     NOT NULL,
	confidence    NUMERIC     NOT NULL,
	twap          NUMERIC     NOT NULL,
	twac          NUMERIC     NOT NULL,
	status        BIGINT      NOT NULL,
	publish_slot  NUMERIC(20) NOT NULL,
	valid_slot    NUMERIC(20) NOT NULL,
	components    INTEGER     NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (run_id, account)
)`

const upsertSnapshot = `
	INSERT INTO price_snapshots (
		run_id, account, symbol, fetched_at, exponent, price, confidence, twap, twac,
		status, publish_slot, valid_slot, components
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	ON CONFLICT (run_id, account)
	DO UPDATE SET
		symbol = EXCLUDED.symbol,
		fetched_at = EXCLUDED.fetched_at,
		exponent = EXCLUDED.exponent,
		price = EXCLUDED.price,
		confidence = EXCLUDED.confidence,
		twap = EXCLUDED.twap,
		twac = EXCLUDED.twac,
		status = EXCLUDED.status,
		publish_slot = EXCLUDED.publish_slot,
		valid_slot = EXCLUDED.valid_slot,
		components = EXCLUDED.components
`

// Store provides Postgres persistence for price snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the snapshot table if needed.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PutSnapshots upserts a batch of snapshots.
func (s *Store) PutSnapshots(ctx context.Context, snapshots []model.PriceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(upsertSnapshot, snapshotArgs(snap)...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, snap := range snapshots {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert snapshot %s: %w", snap.Account, err)
		}
	}
	return nil
}

func snapshotArgs(snap model.PriceSnapshot) []interface{} {
	return []interface{}{
		snap.RunID,
		snap.Account,
		snap.Symbol,
		snap.FetchedAt,
		snap.Exponent,
		numeric(snap.Price),
		numeric(snap.Confidence),
		numeric(snap.TWAP),
		numeric(snap.TWAC),
		int64(snap.Status),
		numeric(decimal.NewFromBigInt(new(big.Int).SetUint64(snap.PublishSlot), 0)),
		numeric(decimal.NewFromBigInt(new(big.Int).SetUint64(snap.ValidSlot), 0)),
		snap.Components,
	}
}

// numeric converts a decimal to its exact pgtype form.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
