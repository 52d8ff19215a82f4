package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vin-jex/design-platform-client/internal/observability"
)

// handleHealth godoc
// @Summary      Liveness probe
// @Description  Indicates whether the process is alive
// @Tags         ops
// @Produce      text/plain
// @Success      200 {string} string "ok"
// @Router       /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady godoc
// @Summary      Readiness probe
// @Description  Indicates whether the mock can accept traffic
// @Tags         ops
// @Produce      text/plain
// @Success      200 {string} string "ready"
// @Failure      503 {string} string "not ready"
// @Router       /readyz [get]
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.jobs == nil || len(s.submitFlows) == 0 {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics godoc
// @Summary      Prometheus metrics
// @Description  Exposes service metrics in Prometheus format
// @Tags         ops
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// @Summary Enterprise API call
// @Description Submit a job to an asynchronous endpoint, or query the status of a submitted job
// @Tags Enterprise
// @Accept json
// @Produce json
// @Param endpoint path string true "Endpoint name, e.g. core_request/init"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 404 {object} Envelope
// @Router /enterprise_api/{endpoint} [post]
func (s *Server) handleEnterpriseCall(
	writer http.ResponseWriter,
	request *http.Request,
) {
	endpoint := mux.Vars(request)["endpoint"]

	if flow, ok := s.submitFlows[endpoint]; ok {
		s.handleSubmit(writer, request, flow)
		return
	}

	if flow, ok := s.statusFlows[endpoint]; ok {
		s.handleStatus(writer, request, flow)
		return
	}

	observability.MockRequests.WithLabelValues("unknown", "404").Inc()
	writeFailure(writer, http.StatusNotFound, "unknown endpoint "+endpoint)
}

func (s *Server) handleSubmit(
	writer http.ResponseWriter,
	request *http.Request,
	flow Flow,
) {
	var payload any
	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		s.count(flow.SubmitEndpoint, http.StatusBadRequest)
		writeFailure(writer, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := s.jobs.Create(flow, payload)

	observability.LoggerFromContext(request.Context()).Info("job created",
		"endpoint", flow.SubmitEndpoint,
		"request_batch_id", id,
	)

	s.count(flow.SubmitEndpoint, http.StatusOK)
	writeData(writer, SubmitResponse{RequestBatchID: id})
}

func (s *Server) handleStatus(
	writer http.ResponseWriter,
	request *http.Request,
	flow Flow,
) {
	var statusRequest StatusRequest
	if err := json.NewDecoder(request.Body).Decode(&statusRequest); err != nil {
		s.count(flow.StatusEndpoint, http.StatusBadRequest)
		writeFailure(writer, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Batch queries answer with an array, like the platform's list variant.
	if len(statusRequest.RequestBatchIDs) > 0 {
		responses := make([]StatusResponse, 0, len(statusRequest.RequestBatchIDs))
		for _, id := range statusRequest.RequestBatchIDs {
			response, err := s.jobs.Advance(id, flow.StatusEndpoint)
			if err != nil {
				s.count(flow.StatusEndpoint, http.StatusNotFound)
				writeFailure(writer, http.StatusNotFound, "unknown request_batch_id "+id)
				return
			}
			responses = append(responses, response)
		}

		s.count(flow.StatusEndpoint, http.StatusOK)
		writeData(writer, responses)
		return
	}

	if statusRequest.RequestBatchID == "" {
		s.count(flow.StatusEndpoint, http.StatusBadRequest)
		writeFailure(writer, http.StatusBadRequest, "request_batch_id required")
		return
	}

	response, err := s.jobs.Advance(statusRequest.RequestBatchID, flow.StatusEndpoint)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			s.count(flow.StatusEndpoint, http.StatusNotFound)
			writeFailure(writer, http.StatusNotFound, "unknown request_batch_id "+statusRequest.RequestBatchID)
			return
		}

		s.count(flow.StatusEndpoint, http.StatusInternalServerError)
		writeFailure(writer, http.StatusInternalServerError, "failed to read job")
		return
	}

	s.count(flow.StatusEndpoint, http.StatusOK)
	writeData(writer, response)
}

func (s *Server) count(endpoint string, code int) {
	observability.MockRequests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}
