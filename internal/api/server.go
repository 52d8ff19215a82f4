// Package api is a mock of the platform's enterprise API. It serves the
// asynchronous submit/status endpoint pairs with a scripted progression
// so the client can be exercised without the real platform.
package api

import (
	"log/slog"
	"net/http"
	"strings"
)

type Server struct {
	jobs        *JobTable
	submitFlows map[string]Flow
	statusFlows map[string]Flow
	accessToken string
	logger      *slog.Logger
	mux         http.Handler
}

type Option func(*Server)

// WithAccessToken makes every enterprise_api call require the token.
func WithAccessToken(token string) Option {
	return func(s *Server) { s.accessToken = token }
}

// WithFlows replaces the default endpoint flows.
func WithFlows(flows ...Flow) Option {
	return func(s *Server) {
		s.submitFlows = map[string]Flow{}
		s.statusFlows = map[string]Flow{}
		for _, flow := range flows {
			s.addFlow(flow)
		}
	}
}

func NewServer(logger *slog.Logger, opts ...Option) *Server {
	server := &Server{
		jobs:        NewJobTable(),
		submitFlows: map[string]Flow{},
		statusFlows: map[string]Flow{},
		logger:      logger,
	}

	for _, flow := range DefaultFlows() {
		server.addFlow(flow)
	}

	for _, opt := range opts {
		opt(server)
	}

	server.registerRoutes()

	return server
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Jobs() *JobTable {
	return s.jobs
}

func (s *Server) addFlow(flow Flow) {
	flow.SubmitEndpoint = strings.Trim(flow.SubmitEndpoint, "/")
	flow.StatusEndpoint = strings.Trim(flow.StatusEndpoint, "/")

	s.submitFlows[flow.SubmitEndpoint] = flow
	s.statusFlows[flow.StatusEndpoint] = flow
}
