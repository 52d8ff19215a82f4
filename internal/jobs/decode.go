package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const handleField = "request_batch_id"

// StatusDecoder normalises a status response to one Status for the
// polled handle. The platform answers with a single object, an array of
// objects, or an object keyed by request id depending on the endpoint.
type StatusDecoder struct {
	// ResultField holds the completed payload, e.g. output_file_path or
	// sku_ids. Defaults to "result".
	ResultField string

	// ErrorFields are tried in order for the failure context.
	ErrorFields []string
}

func DefaultDecoder() StatusDecoder {
	return StatusDecoder{
		ResultField: "result",
		ErrorFields: []string{"error_context", "error", "failure_reason"},
	}
}

func (d StatusDecoder) Decode(handle Handle, data json.RawMessage) (Status, error) {
	object, err := d.selectObject(handle, data)
	if err != nil {
		return Status{}, err
	}

	rawStatus, ok := object["status"]
	if !ok {
		return Status{}, fmt.Errorf("%w: no status field", ErrBadStatus)
	}

	var statusText string
	if err := json.Unmarshal(rawStatus, &statusText); err != nil {
		return Status{}, fmt.Errorf("%w: status is not a string: %s", ErrBadStatus, rawStatus)
	}

	status := Status{
		Handle:   handle,
		State:    ParseState(statusText),
		RawState: statusText,
	}

	switch status.State {
	case StateCompleted:
		resultField := d.ResultField
		if resultField == "" {
			resultField = "result"
		}
		status.Result = nonNull(object[resultField])
	case StateFailed:
		fields := d.ErrorFields
		if len(fields) == 0 {
			fields = DefaultDecoder().ErrorFields
		}
		for _, field := range fields {
			if raw := nonNull(object[field]); raw != nil {
				status.ErrorContext = raw
				break
			}
		}
	}

	return status, nil
}

func (d StatusDecoder) selectObject(handle Handle, data json.RawMessage) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, fmt.Errorf("%w: empty response", ErrBadStatus)
	}

	switch trimmed[0] {
	case '[':
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadStatus, err)
		}
		return pickFromList(handle, items)

	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadStatus, err)
		}

		if _, ok := object["status"]; ok {
			return object, nil
		}

		// Keyed by request id.
		raw, ok := object[string(handle)]
		if !ok {
			return nil, fmt.Errorf("%w: no entry for %s", ErrBadStatus, handle)
		}

		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, fmt.Errorf("%w: entry for %s: %v", ErrBadStatus, handle, err)
		}
		return nested, nil
	}

	return nil, fmt.Errorf("%w: unexpected JSON %s", ErrBadStatus, excerpt(trimmed))
}

func pickFromList(handle Handle, items []map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	for _, item := range items {
		for _, key := range []string{handleField, "id"} {
			raw, ok := item[key]
			if !ok {
				continue
			}
			if id, ok := decodeID(raw); ok && id == string(handle) {
				return item, nil
			}
		}
	}

	if len(items) == 1 {
		return items[0], nil
	}

	return nil, fmt.Errorf("%w: %d entries, none for %s", ErrBadStatus, len(items), handle)
}

// decodeID accepts string and numeric identifiers.
func decodeID(raw json.RawMessage) (string, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return strings.TrimSpace(text), true
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err == nil {
		return number.String(), true
	}

	return "", false
}

func nonNull(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}
	return trimmed
}

func excerpt(data []byte) string {
	if len(data) > 120 {
		return string(data[:120]) + "..."
	}
	return string(data)
}
