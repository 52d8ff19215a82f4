package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// IMPORTANT:
// All request state changes MUST go through RecordObservation, which
// checks them against jobs.ValidateTransition. A direct UPDATE of
// job_requests.state elsewhere can move a request out of a terminal state.

type Store struct {
	connectionPool *pgxpool.Pool
}

func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	return &Store{connectionPool: pool}, nil
}

func (s *Store) Close() {
	s.connectionPool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.connectionPool.Ping(ctx)
}
