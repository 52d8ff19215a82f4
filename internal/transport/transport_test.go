package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vin-jex/design-platform-client/internal/config"
	"github.com/vin-jex/design-platform-client/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.ServerPath = server.URL
	cfg.AccessToken = "token"
	cfg.Email = "ops@example.com"
	cfg.StoreID = "store-1"
	cfg.HTTPTimeout = 2 * time.Second

	return New(cfg)
}

func TestCallSendsCredentialsAndUnwrapsData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/enterprise_api/sku_category/add" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get(HeaderAccessToken) != "token" ||
			r.Header.Get(HeaderEmail) != "ops@example.com" ||
			r.Header.Get(HeaderStoreID) != "store-1" {
			t.Errorf("missing credential headers: %v", r.Header)
		}
		if r.Header.Get(HeaderRequestID) == "" {
			t.Error("expected request id header")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["name"] != "Wardrobes" {
			t.Errorf("unexpected body %v", body)
		}

		_, _ = io.WriteString(w, `{"response_code":1,"data":{"id":"cat-1"}}`)
	})

	data, err := client.Call(context.Background(), "sku_category/add", map[string]any{"name": "Wardrobes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID != "cat-1" {
		t.Fatalf("expected cat-1, got %q", created.ID)
	}
}

func TestCallPropagatesRequestIDFromContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(HeaderRequestID); got != "req-42" {
			t.Errorf("expected request id req-42, got %q", got)
		}
		_, _ = io.WriteString(w, `{"response_code":0,"data":null}`)
	})

	ctx := observability.WithRequestID(context.Background(), "req-42")
	if _, err := client.Call(ctx, "tag/add", nil); err != nil {
		t.Fatal(err)
	}
}

func TestCallReturnsHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Call(context.Background(), "jobs/create", map[string]any{})

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", httpErr.StatusCode)
	}
}

func TestCallReturnsServerErrorForFailedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response_code":-1,"error":"unauthorized"}`)
	})

	_, err := client.Call(context.Background(), "sku/get_tags", map[string]any{})

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Message != "unauthorized" || serverErr.ResponseCode != "-1" {
		t.Fatalf("unexpected server error %+v", serverErr)
	}
}

func TestCallRejectsNonJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway</html>`)
	})

	_, err := client.Call(context.Background(), "sku/get_tags", nil)

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
}

func TestCallWithCustomDataField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response_code":1,"payload":[1,2]}`)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.ServerPath = server.URL

	data, err := New(cfg, WithDataField("payload")).Call(context.Background(), "x", nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1,2]" {
		t.Fatalf("unexpected data %s", data)
	}
}

func TestCallTransportFailure(t *testing.T) {
	cfg := config.Default()
	cfg.ServerPath = "http://127.0.0.1:1"
	cfg.HTTPTimeout = time.Second

	if _, err := New(cfg).Call(context.Background(), "jobs/create", nil); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestResolveFileURL(t *testing.T) {
	cases := []struct {
		server, path, want string
	}{
		{"https://p.example.com", "outputs/a.json", "https://p.example.com/outputs/a.json"},
		{"https://p.example.com/", "/outputs/a.json", "https://p.example.com/outputs/a.json"},
		{"https://p.example.com", "https://cdn.example.com/a.zip", "https://cdn.example.com/a.zip"},
		{"https://p.example.com", "", ""},
	}

	for _, tc := range cases {
		if got := ResolveFileURL(tc.server, tc.path); got != tc.want {
			t.Fatalf("ResolveFileURL(%q, %q) = %q, want %q", tc.server, tc.path, got, tc.want)
		}
	}
}
