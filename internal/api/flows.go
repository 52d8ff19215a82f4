package api

import (
	"fmt"
	"strings"
)

// Flow describes one asynchronous endpoint pair served by the mock.
type Flow struct {
	SubmitEndpoint string
	StatusEndpoint string
	ResultField    string

	// PendingPolls status queries answer "initialized", then the job reports
	// "ongoing" until CompleteAfter polls have been served.
	PendingPolls  int
	CompleteAfter int

	Result func(id string, payload any) any
}

// FailureKey anywhere in a payload makes the mock fail the job with the
// given value as error context.
const FailureKey = "mock_failure"

func DefaultFlows() []Flow {
	return []Flow{
		{
			SubmitEndpoint: "core_request/init",
			StatusEndpoint: "core_request/get_status",
			ResultField:    "output_file_path",
			PendingPolls:   1,
			CompleteAfter:  3,
			Result:         reportOutputPath,
		},
		{
			SubmitEndpoint: "pricing_quotation/init_json",
			StatusEndpoint: "pricing_quotation/get_json_status",
			ResultField:    "output_file_path",
			PendingPolls:   1,
			CompleteAfter:  2,
			Result: func(id string, _ any) any {
				return fmt.Sprintf("outputs/pricing_quotation/%s.json", id)
			},
		},
		{
			SubmitEndpoint: "sku/create_cabinets",
			StatusEndpoint: "sku/get_create_cabinet_status",
			ResultField:    "sku_ids",
			PendingPolls:   0,
			CompleteAfter:  2,
			Result:         cabinetSKUIDs,
		},
		{
			SubmitEndpoint: "jobs/create",
			StatusEndpoint: "jobs/status",
			ResultField:    "result",
			PendingPolls:   0,
			CompleteAfter:  3,
			Result: func(id string, payload any) any {
				return payload
			},
		},
	}
}

func reportOutputPath(id string, payload any) any {
	extension := "json"

	if object, ok := payload.(map[string]any); ok {
		if commands, ok := object["commands"].([]any); ok && len(commands) > 1 {
			extension = "zip"
		}
	}

	return fmt.Sprintf("outputs/core_requests/%s.%s", id, extension)
}

func cabinetSKUIDs(id string, payload any) any {
	items, _ := payload.([]any)

	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, fmt.Sprintf("%s_%d", strings.TrimSpace(id), i+1))
	}

	return ids
}

func failureReason(payload any) (any, bool) {
	switch value := payload.(type) {
	case map[string]any:
		if reason, ok := value[FailureKey]; ok {
			return reason, true
		}
		for _, nested := range value {
			if reason, ok := failureReason(nested); ok {
				return reason, true
			}
		}
	case []any:
		for _, item := range value {
			if reason, ok := failureReason(item); ok {
				return reason, true
			}
		}
	}

	return nil, false
}
