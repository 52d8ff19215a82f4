package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vin-jex/design-platform-client/internal/jobs"
)

var ErrRequestNotFound = errors.New("request not found")

// Request is one submitted job as last observed by this client.
type Request struct {
	Handle         jobs.Handle
	SubmitEndpoint string
	StatusEndpoint string
	Payload        json.RawMessage
	State          jobs.State
	RawState       *string
	Result         json.RawMessage
	ErrorContext   json.RawMessage
	PollCount      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r Request) Status() jobs.Status {
	status := jobs.Status{
		Handle:       r.Handle,
		State:        r.State,
		Result:       r.Result,
		ErrorContext: r.ErrorContext,
	}
	if r.RawState != nil {
		status.RawState = *r.RawState
	}
	return status
}

const requestColumns = `
	handle,
	submit_endpoint,
	status_endpoint,
	payload,
	state,
	raw_state,
	result,
	error_context,
	poll_count,
	created_at,
	updated_at
`

func (s *Store) RecordSubmission(
	ctx context.Context,
	handle jobs.Handle,
	submitEndpoint string,
	statusEndpoint string,
	payload any,
) error {
	var payloadBytes []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		payloadBytes = encoded
	}

	_, err := s.connectionPool.Exec(
		ctx,
		`
		INSERT INTO job_requests (
			handle,
			submit_endpoint,
			status_endpoint,
			payload,
			state
		)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (handle) DO NOTHING
		`,
		string(handle),
		submitEndpoint,
		statusEndpoint,
		payloadBytes,
	)

	return err
}

// RecordObservation stores a polled status. Observations that would leave
// a terminal state are rejected with jobs.ErrInvalidStateTransition;
// repeating the terminal state only bumps the poll count.
func (s *Store) RecordObservation(
	ctx context.Context,
	status jobs.Status,
) error {
	return s.WithTransaction(ctx, func(transaction pgx.Tx) error {
		var current string

		err := transaction.QueryRow(
			ctx,
			`
			SELECT state
			FROM job_requests
			WHERE handle = $1
			FOR UPDATE
			`,
			string(status.Handle),
		).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrRequestNotFound
			}
			return err
		}

		from := jobs.State(current)
		if err := jobs.ValidateTransition(from, status.State); err != nil {
			return err
		}

		if from.IsTerminal() {
			_, err := transaction.Exec(
				ctx,
				`
				UPDATE job_requests
				SET poll_count = poll_count + 1
				WHERE handle = $1
				`,
				string(status.Handle),
			)
			return err
		}

		_, err = transaction.Exec(
			ctx,
			`
			UPDATE job_requests
			SET state = $2,
				raw_state = $3,
				result = $4,
				error_context = $5,
				poll_count = poll_count + 1,
				updated_at = now()
			WHERE handle = $1
			`,
			string(status.Handle),
			string(status.State),
			status.RawState,
			nullableJSON(status.Result),
			nullableJSON(status.ErrorContext),
		)

		return err
	})
}

func (s *Store) GetRequest(
	ctx context.Context,
	handle jobs.Handle,
) (*Request, error) {
	row := s.connectionPool.QueryRow(
		ctx,
		`SELECT `+requestColumns+`
		FROM job_requests
		WHERE handle = $1`,
		string(handle),
	)

	request, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	return request, nil
}

// ListRequests returns the newest requests first, optionally filtered by
// state.
func (s *Store) ListRequests(
	ctx context.Context,
	state *jobs.State,
	limit int,
) ([]Request, error) {
	if limit <= 0 {
		limit = 100
	}

	var filter *string
	if state != nil {
		value := string(*state)
		filter = &value
	}

	rows, err := s.connectionPool.Query(
		ctx,
		`SELECT `+requestColumns+`
		FROM job_requests
		WHERE ($1::text IS NULL OR state = $1)
		ORDER BY created_at DESC
		LIMIT $2`,
		filter,
		limit,
	)
	if err != nil {
		return nil, err
	}

	return collectRequests(rows)
}

// ListOutstanding returns requests that have not reached a terminal state,
// oldest first.
func (s *Store) ListOutstanding(
	ctx context.Context,
	limit int,
) ([]Request, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.connectionPool.Query(
		ctx,
		`SELECT `+requestColumns+`
		FROM job_requests
		WHERE state NOT IN ('completed', 'failed')
		ORDER BY created_at
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}

	return requests, rows.Err()
}

func scanRequest(row pgx.Row) (*Request, error) {
	var (
		request      Request
		handle       string
		state        string
		payload      []byte
		result       []byte
		errorContext []byte
	)

	err := row.Scan(
		&handle,
		&request.SubmitEndpoint,
		&request.StatusEndpoint,
		&payload,
		&state,
		&request.RawState,
		&result,
		&errorContext,
		&request.PollCount,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	request.Handle = jobs.Handle(handle)
	request.State = jobs.State(state)
	request.Payload = payload
	request.Result = result
	request.ErrorContext = errorContext

	return &request, nil
}

func nullableJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
