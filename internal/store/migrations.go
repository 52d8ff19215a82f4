package store

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS job_requests (
	handle          TEXT PRIMARY KEY,
	submit_endpoint TEXT NOT NULL,
	status_endpoint TEXT NOT NULL,
	payload         JSONB,
	state           TEXT NOT NULL DEFAULT 'pending',
	raw_state       TEXT,
	result          JSONB,
	error_context   JSONB,
	poll_count      INTEGER NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_job_requests_state_created
	ON job_requests (state, created_at);
`

// Migrate creates the ledger schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.connectionPool.Exec(ctx, schema)
	return err
}
