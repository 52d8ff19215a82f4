// Package transport is the HTTP-call wrapper for the platform's
// enterprise API: it resolves endpoint paths, attaches credentials and
// unwraps the {response_code, data, error} envelope.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vin-jex/design-platform-client/internal/config"
	"github.com/vin-jex/design-platform-client/internal/observability"
)

const (
	HeaderAccessToken = "infurnia-access-token"
	HeaderEmail       = "infurnia-email"
	HeaderStoreID     = "infurnia-store-id"
	HeaderRequestID   = "X-Request-ID"

	apiPrefix       = "/enterprise_api/"
	maxResponseSize = 10 << 20
)

// Caller issues one platform call: given an endpoint name and a body it
// returns the unwrapped data field or a descriptive error.
type Caller interface {
	Call(ctx context.Context, endpoint string, body any) (json.RawMessage, error)
}

type Client struct {
	baseURL     string
	accessToken string
	email       string
	storeID     string
	dataField   string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithDataField changes the envelope field returned on success.
func WithDataField(field string) Option {
	return func(c *Client) { c.dataField = field }
}

func New(cfg config.Config, opts ...Option) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}

	c := &Client{
		baseURL:     strings.TrimRight(cfg.ServerPath, "/"),
		accessToken: cfg.AccessToken,
		email:       cfg.Email,
		storeID:     cfg.StoreID,
		dataField:   "data",
		httpClient:  &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Call(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("transport: empty endpoint")
	}

	url := c.baseURL + apiPrefix + endpoint

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("transport: encode body for %s: %w", endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("transport: build request for %s: %w", endpoint, err)
	}

	requestID, ok := observability.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set(HeaderAccessToken, c.accessToken)
	request.Header.Set(HeaderEmail, c.email)
	request.Header.Set(HeaderStoreID, c.storeID)
	request.Header.Set(HeaderRequestID, requestID)

	logger := observability.LoggerFromContext(ctx).With("endpoint", endpoint, "request_id", requestID)
	started := time.Now()

	response, err := c.httpClient.Do(request)
	if err != nil {
		logger.Debug("platform call failed", "err", err)
		return nil, fmt.Errorf("transport: call %s: %w", endpoint, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("transport: read response from %s: %w", endpoint, err)
	}

	logger.Debug("platform call finished",
		"status_code", response.StatusCode,
		"duration", time.Since(started),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &HTTPError{
			Endpoint:   endpoint,
			StatusCode: response.StatusCode,
			Body:       excerpt(payload),
		}
	}

	return unwrapEnvelope(endpoint, payload, c.dataField)
}

// ResolveFileURL turns a relative output path reported by the platform
// into an absolute URL on the configured server.
func (c *Client) ResolveFileURL(path string) string {
	return ResolveFileURL(c.baseURL, path)
}

func ResolveFileURL(serverPath, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	return strings.TrimRight(serverPath, "/") + "/" + strings.TrimLeft(path, "/")
}

func unwrapEnvelope(endpoint string, payload []byte, dataField string) (json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, &ServerError{
			Endpoint: endpoint,
			Message:  "response is not a JSON object: " + excerpt(payload),
		}
	}

	var code json.Number
	if raw, ok := envelope["response_code"]; ok {
		if err := json.Unmarshal(raw, &code); err != nil {
			return nil, &ServerError{Endpoint: endpoint, Message: "invalid response_code " + string(raw)}
		}
	}

	if code != "0" && code != "1" {
		message := "missing response_code"
		if raw, ok := envelope["error"]; ok && string(raw) != "null" {
			message = decodeMessage(raw)
		}

		return nil, &ServerError{
			Endpoint:     endpoint,
			ResponseCode: code.String(),
			Message:      message,
		}
	}

	data, ok := envelope[dataField]
	if !ok {
		return json.RawMessage("null"), nil
	}

	return data, nil
}

func decodeMessage(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	return string(raw)
}

func excerpt(body []byte) string {
	const limit = 512

	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		return text[:limit] + "..."
	}

	return text
}
