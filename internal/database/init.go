package database

import (
	"context"
	"fmt"
)

// schema holds the DDL for the decision-record store. Idempotent so
// startup can run it unconditionally.
const schema = `
CREATE TABLE IF NOT EXISTS recommendations (
	id               UUID PRIMARY KEY,
	candidate_id     TEXT NOT NULL,
	event_id         TEXT NOT NULL,
	entity_id        TEXT NOT NULL,
	stat_category    TEXT NOT NULL,
	line             DOUBLE PRECISION NOT NULL,
	side             TEXT NOT NULL,
	tier             TEXT NOT NULL,
	reasons          JSONB NOT NULL DEFAULT '[]',
	probability      DOUBLE PRECISION NOT NULL,
	implied          DOUBLE PRECISION NOT NULL,
	edge             DOUBLE PRECISION NOT NULL,
	expected_value   DOUBLE PRECISION NOT NULL,
	price            NUMERIC NOT NULL,
	fair_price       NUMERIC NOT NULL,
	mispricing       NUMERIC NOT NULL,
	confidence_base  DOUBLE PRECISION NOT NULL,
	confidence_final DOUBLE PRECISION NOT NULL,
	confidence_cap   DOUBLE PRECISION NOT NULL,
	sample_size      INTEGER NOT NULL,
	penalties        JSONB NOT NULL DEFAULT '[]',
	projected_mean   DOUBLE PRECISION NOT NULL,
	warnings         JSONB NOT NULL DEFAULT '[]',
	evaluated_at     TIMESTAMPTZ NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_recommendations_event ON recommendations (event_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_entity ON recommendations (event_id, entity_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_tier ON recommendations (tier);
CREATE INDEX IF NOT EXISTS idx_recommendations_evaluated_at ON recommendations (evaluated_at);
`

// InitSchema creates the decision-record tables if they do not exist.
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
