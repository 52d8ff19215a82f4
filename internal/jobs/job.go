package jobs

import "encoding/json"

// Handle is the request identifier returned by a submission. It is the
// only key used for later status queries.
type Handle string

func (h Handle) String() string { return string(h) }

// JobRequest is forwarded to the platform as-is. Payload is usually a
// map[string]any but some endpoints take a JSON array.
type JobRequest struct {
	Endpoint string
	Payload  any
}

// Status is one observation of a job. Result is only set when the job
// completed, ErrorContext only when it failed.
type Status struct {
	Handle       Handle          `json:"request_batch_id"`
	State        State           `json:"status"`
	RawState     string          `json:"raw_status,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorContext json.RawMessage `json:"error_context,omitempty"`
}

func (s Status) Terminal() bool {
	return s.State.IsTerminal()
}

// DecodeResult unmarshals the completed result into target.
func (s Status) DecodeResult(target any) error {
	if len(s.Result) == 0 {
		return ErrNoResult
	}
	return json.Unmarshal(s.Result, target)
}

// ErrorMessage renders the failure context as text, unquoting plain
// JSON strings.
func (s Status) ErrorMessage() string {
	if len(s.ErrorContext) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(s.ErrorContext, &text); err == nil {
		return text
	}

	return string(s.ErrorContext)
}
