package api

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

const (
	mockInitialized = "initialized"
	mockOngoing     = "ongoing"
	mockCompleted   = "completed"
	mockFailed      = "failed"
)

type mockJob struct {
	id        string
	flow      Flow
	payload   any
	polls     int
	status    string
	result    any
	errorCtx  any
	createdAt time.Time
}

// JobTable is the mock's in-memory job store. Terminal jobs are frozen:
// every later status query returns the same answer.
type JobTable struct {
	mu   sync.Mutex
	jobs map[string]*mockJob
}

func NewJobTable() *JobTable {
	return &JobTable{jobs: make(map[string]*mockJob)}
}

func (t *JobTable) Create(flow Flow, payload any) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := newRequestBatchID()
	for t.jobs[id] != nil {
		id = newRequestBatchID()
	}

	t.jobs[id] = &mockJob{
		id:        id,
		flow:      flow,
		payload:   payload,
		status:    mockInitialized,
		createdAt: time.Now(),
	}

	return id
}

// Advance serves one status query for id and returns the resulting view.
func (t *JobTable) Advance(id string, statusEndpoint string) (StatusResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok || job.flow.StatusEndpoint != statusEndpoint {
		return StatusResponse{}, ErrJobNotFound
	}

	if job.status != mockCompleted && job.status != mockFailed {
		job.polls++

		switch {
		case job.polls >= job.flow.CompleteAfter:
			if reason, failed := failureReason(job.payload); failed {
				job.status = mockFailed
				job.errorCtx = reason
			} else {
				job.status = mockCompleted
				if job.flow.Result != nil {
					job.result = job.flow.Result(job.id, job.payload)
				}
			}
		case job.polls > job.flow.PendingPolls:
			job.status = mockOngoing
		}
	}

	return job.view(), nil
}

func (t *JobTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.jobs)
}

func (j *mockJob) view() StatusResponse {
	response := StatusResponse{
		RequestBatchID: j.id,
		Status:         j.status,
	}

	switch j.status {
	case mockCompleted:
		response.ResultField = j.flow.ResultField
		response.Result = j.result
	case mockFailed:
		response.ErrorContext = j.errorCtx
	}

	return response
}

// newRequestBatchID matches the platform's 16 hex character ids.
func newRequestBatchID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
