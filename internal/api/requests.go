package api

type StatusRequest struct {
	RequestBatchID  string   `json:"request_batch_id"`
	RequestBatchIDs []string `json:"request_batch_ids"`
}
