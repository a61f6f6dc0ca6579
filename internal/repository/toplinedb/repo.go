// Package toplinedb upserts topline facts into Postgres.
package toplinedb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kailas-cloud/wbindicators/internal/domain/topline"
)

const createTable = `
CREATE TABLE IF NOT EXISTS worldbank_topline (
	countryiso     TEXT NOT NULL,
	indicator_code TEXT NOT NULL,
	indicator      TEXT NOT NULL,
	source         TEXT NOT NULL,
	url            TEXT NOT NULL,
	year           INTEGER NOT NULL,
	unit           TEXT NOT NULL,
	value          DOUBLE PRECISION NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (countryiso, indicator_code)
)`

const upsertFact = `
INSERT INTO worldbank_topline (countryiso, indicator_code, indicator, source, url, year, unit, value)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (countryiso, indicator_code)
DO UPDATE SET
	indicator = EXCLUDED.indicator,
	source = EXCLUDED.source,
	url = EXCLUDED.url,
	year = EXCLUDED.year,
	unit = EXCLUDED.unit,
	value = EXCLUDED.value,
	updated_at = NOW()`

// pool is the consumer interface over pgxpool.Pool (ISP).
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Repo stores topline facts keyed by country and indicator.
type Repo struct {
	pool pool
}

// New creates a repository over an existing pool.
func New(p pool) *Repo {
	return &Repo{pool: p}
}

// Connect opens a pgx pool for dsn and verifies it answers.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return p, nil
}

// EnsureSchema creates the topline table when missing.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create worldbank_topline: %w", err)
	}
	return nil
}

// UpsertFacts writes every fact in one batch. A later fact for the same key wins.
func (r *Repo) UpsertFacts(ctx context.Context, facts []topline.Fact) error {
	if len(facts) == 0 {
		return nil
	}
	if err := r.EnsureSchema(ctx); err != nil {
		return err
	}

	b := &pgx.Batch{}
	for _, f := range facts {
		b.Queue(upsertFact, f.CountryISO3, f.IndicatorCode, f.Indicator, f.Source, f.URL, f.Year, f.Unit, f.Value)
	}

	br := r.pool.SendBatch(ctx, b)
	for i := range facts {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert topline %s/%s: %w", facts[i].CountryISO3, facts[i].IndicatorCode, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close topline batch: %w", err)
	}
	return nil
}
