package transport

import "fmt"

// HTTPError is returned when the platform answers with a non-2xx status.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("transport: %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// ServerError is returned when the envelope reports a failure.
type ServerError struct {
	Endpoint     string
	ResponseCode string
	Message      string
}

func (e *ServerError) Error() string {
	if e.ResponseCode == "" {
		return fmt.Sprintf("transport: %s failed: %s", e.Endpoint, e.Message)
	}

	return fmt.Sprintf("transport: %s failed with response_code %s: %s", e.Endpoint, e.ResponseCode, e.Message)
}
