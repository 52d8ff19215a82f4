package api

import (
	"encoding/json"
	"net/http"
)

// Envelope mirrors the platform's response wrapper.
type Envelope struct {
	ResponseCode int    `json:"response_code"`
	Data         any    `json:"data,omitempty"`
	Error        string `json:"error,omitempty"`
}

type SubmitResponse struct {
	RequestBatchID string `json:"request_batch_id"`
}

type StatusResponse struct {
	RequestBatchID string `json:"request_batch_id"`
	Status         string `json:"status"`
	Result         any    `json:"-"`
	ResultField    string `json:"-"`
	ErrorContext   any    `json:"error_context,omitempty"`
}

// MarshalJSON places the result under the flow's field name, e.g.
// output_file_path or sku_ids, the way the platform does.
func (r StatusResponse) MarshalJSON() ([]byte, error) {
	object := map[string]any{
		"request_batch_id": r.RequestBatchID,
		"status":           r.Status,
	}

	if r.ResultField != "" {
		object[r.ResultField] = r.Result
	}
	if r.ErrorContext != nil {
		object["error_context"] = r.ErrorContext
	}

	return json.Marshal(object)
}

func writeData(writer http.ResponseWriter, data any) {
	writeEnvelope(writer, http.StatusOK, Envelope{ResponseCode: 1, Data: data})
}

func writeFailure(writer http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(writer, statusCode, Envelope{ResponseCode: -1, Error: message})
}

func writeEnvelope(writer http.ResponseWriter, statusCode int, envelope Envelope) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(envelope)
}
