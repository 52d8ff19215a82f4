package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_job_submissions_total",
			Help: "Job submissions by outcome (ok, error).",
		},
		[]string{"outcome"},
	)

	JobPolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_job_polls_total",
			Help: "Status polls by observed state, or error.",
		},
		[]string{"state"},
	)

	JobAwaitSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_job_await_seconds",
			Help:    "Time spent waiting for a job to reach a terminal state.",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)

	MockRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mock_platform_requests_total",
			Help: "Requests served by the mock platform by endpoint and response code.",
		},
		[]string{"endpoint", "code"},
	)
)
