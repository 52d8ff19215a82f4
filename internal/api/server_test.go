package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/vin-jex/design-platform-client/internal/config"
	"github.com/vin-jex/design-platform-client/internal/jobs"
	"github.com/vin-jex/design-platform-client/internal/observability"
	"github.com/vin-jex/design-platform-client/internal/transport"
)

const testToken = "test-token"

func newTestPlatform(t *testing.T, opts ...Option) (*Server, *transport.Client) {
	t.Helper()

	opts = append([]Option{WithAccessToken(testToken)}, opts...)
	server := NewServer(observability.DiscardLogger(), opts...)

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	cfg := config.Default()
	cfg.ServerPath = httpServer.URL
	cfg.AccessToken = testToken
	cfg.Email = "ops@example.com"
	cfg.StoreID = "store-1"
	cfg.HTTPTimeout = 2 * time.Second

	return server, transport.New(cfg)
}

func TestHealthAndReady(t *testing.T) {
	server := NewServer(observability.DiscardLogger())

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		recorder := httptest.NewRecorder()
		server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

		if recorder.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, recorder.Code)
		}
	}
}

func TestRejectsMissingToken(t *testing.T) {
	server := NewServer(observability.DiscardLogger(), WithAccessToken(testToken))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/enterprise_api/jobs/create", bytes.NewBufferString(`{}`))
	server.Handler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}

	var envelope Envelope
	if err := json.NewDecoder(recorder.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.ResponseCode != -1 || envelope.Error == "" {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestUnknownEndpoint(t *testing.T) {
	_, caller := newTestPlatform(t)

	_, err := caller.Call(context.Background(), "does/not_exist", map[string]any{})

	var httpErr *transport.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestSubmitAndAwaitAgainstMock(t *testing.T) {
	_, caller := newTestPlatform(t)
	client := jobs.New(caller, "jobs/status", jobs.WithLogger(observability.DiscardLogger()))

	handle, err := client.Submit(context.Background(), jobs.JobRequest{
		Endpoint: "jobs/create",
		Payload:  map[string]any{"count": 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(handle) != 16 {
		t.Fatalf("expected 16 character handle, got %q", handle)
	}

	status, err := client.AwaitCompletion(context.Background(), handle, 5*time.Millisecond, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if status.State != jobs.StateCompleted {
		t.Fatalf("expected completed, got %s", status.State)
	}

	var result map[string]any
	if err := status.DecodeResult(&result); err != nil {
		t.Fatal(err)
	}
	if result["count"] != float64(2) {
		t.Fatalf("unexpected result %v", result)
	}
}

func TestTerminalStatusIsStable(t *testing.T) {
	_, caller := newTestPlatform(t)
	client := jobs.New(caller, "core_request/get_status",
		jobs.WithResultField("output_file_path"),
		jobs.WithLogger(observability.DiscardLogger()),
	)

	status, err := client.Run(context.Background(), jobs.JobRequest{
		Endpoint: "core_request/init",
		Payload: map[string]any{
			"design_branch_id": "d57e969750c4078",
			"commands":         []string{"GetPricingQuotationDetailsJSON"},
		},
	}, time.Millisecond, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		again, err := client.Poll(context.Background(), status.Handle)
		if err != nil {
			t.Fatal(err)
		}
		if again.State != status.State || !bytes.Equal(again.Result, status.Result) {
			t.Fatalf("terminal status changed: %+v vs %+v", again, status)
		}
	}
}

func TestFailedJobIsReportedAsStatus(t *testing.T) {
	_, caller := newTestPlatform(t)
	client := jobs.New(caller, "jobs/status", jobs.WithLogger(observability.DiscardLogger()))

	status, err := client.Run(context.Background(), jobs.JobRequest{
		Endpoint: "jobs/create",
		Payload:  map[string]any{FailureKey: "disk full"},
	}, time.Millisecond, 5*time.Second)
	if err != nil {
		t.Fatalf("a failed job is not an error: %v", err)
	}

	if status.State != jobs.StateFailed || status.ErrorMessage() != "disk full" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestPollUnknownHandleIsPollError(t *testing.T) {
	_, caller := newTestPlatform(t)
	client := jobs.New(caller, "jobs/status", jobs.WithLogger(observability.DiscardLogger()))

	_, err := client.Poll(context.Background(), "0000000000000000")
	if !errors.Is(err, jobs.ErrPoll) {
		t.Fatalf("expected PollError, got %v", err)
	}
}

func TestConcurrentSubmissionsGetDistinctHandles(t *testing.T) {
	server, caller := newTestPlatform(t)
	client := jobs.New(caller, "jobs/status", jobs.WithLogger(observability.DiscardLogger()))

	const submissions = 25

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		handles = map[jobs.Handle]bool{}
	)

	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			handle, err := client.Submit(context.Background(), jobs.JobRequest{
				Endpoint: "jobs/create",
				Payload:  map[string]any{"n": i},
			})
			if err != nil {
				t.Error(err)
				return
			}

			mu.Lock()
			handles[handle] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(handles) != submissions {
		t.Fatalf("expected %d distinct handles, got %d", submissions, len(handles))
	}
	if server.Jobs().Len() != submissions {
		t.Fatalf("expected %d jobs on the server, got %d", submissions, server.Jobs().Len())
	}
}

func TestBatchStatusQueryReturnsArray(t *testing.T) {
	_, caller := newTestPlatform(t)

	first, err := caller.Call(context.Background(), "jobs/create", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := caller.Call(context.Background(), "jobs/create", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}

	var a, b SubmitResponse
	_ = json.Unmarshal(first, &a)
	_ = json.Unmarshal(second, &b)

	data, err := caller.Call(context.Background(), "jobs/status", map[string]any{
		"request_batch_ids": []string{a.RequestBatchID, b.RequestBatchID},
	})
	if err != nil {
		t.Fatal(err)
	}

	status, err := jobs.DefaultDecoder().Decode(jobs.Handle(b.RequestBatchID), data)
	if err != nil {
		t.Fatal(err)
	}
	if status.Handle != jobs.Handle(b.RequestBatchID) || status.Terminal() {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestCustomFlowProgression(t *testing.T) {
	_, caller := newTestPlatform(t, WithFlows(Flow{
		SubmitEndpoint: "render/start",
		StatusEndpoint: "render/status",
		ResultField:    "output_file_path",
		PendingPolls:   2,
		CompleteAfter:  4,
		Result: func(id string, _ any) any {
			return "rendering/outputs/" + id + ".jpg"
		},
	}))

	client := jobs.New(caller, "render/status",
		jobs.WithResultField("output_file_path"),
		jobs.WithLogger(observability.DiscardLogger()),
	)

	handle, err := client.Submit(context.Background(), jobs.JobRequest{Endpoint: "render/start", Payload: map[string]any{}})
	if err != nil {
		t.Fatal(err)
	}

	want := []jobs.State{jobs.StatePending, jobs.StatePending, jobs.StateRunning, jobs.StateCompleted}
	for i, expected := range want {
		status, err := client.Poll(context.Background(), handle)
		if err != nil {
			t.Fatal(err)
		}
		if status.State != expected {
			t.Fatalf("poll %d: expected %s, got %s", i+1, expected, status.State)
		}
	}
}
