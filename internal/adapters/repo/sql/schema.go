package sql

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements run one at a time; the mysql driver rejects multi-statement
// Exec unless the DSN opts in.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS negotiations (
  id VARCHAR(64) NOT NULL PRIMARY KEY,
  kind VARCHAR(16) NOT NULL,
  ref_id VARCHAR(128) NOT NULL,
  status VARCHAR(16) NOT NULL,
  round_no INTEGER NOT NULL,
  last_offer DOUBLE,
  last_counter DOUBLE,
  min_price DOUBLE NOT NULL,
  max_price DOUBLE NOT NULL,
  max_discount DOUBLE NOT NULL,
  round_cap INTEGER NOT NULL,
  accept_threshold DOUBLE NOT NULL,
  eagerness DOUBLE NOT NULL,
  flexibility DOUBLE NOT NULL,
  convergence_delta DOUBLE NOT NULL,
  opening_price DOUBLE NOT NULL,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS negotiation_rounds (
  negotiation_id VARCHAR(64) NOT NULL,
  number INTEGER NOT NULL,
  offer DOUBLE NOT NULL,
  outcome VARCHAR(16) NOT NULL,
  reason VARCHAR(32) NOT NULL,
  price DOUBLE NOT NULL,
  message TEXT NOT NULL,
  can_continue BOOLEAN NOT NULL,
  evaluated_at BIGINT NOT NULL,
  PRIMARY KEY (negotiation_id, number)
)`,
}

func initSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}
