package jobs

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeShapes(t *testing.T) {
	decoder := StatusDecoder{ResultField: "output_file_path"}

	cases := []struct {
		name       string
		data       string
		wantState  State
		wantResult string
	}{
		{
			name:       "single object",
			data:       `{"status":"completed","output_file_path":"out/a.json"}`,
			wantState:  StateCompleted,
			wantResult: `"out/a.json"`,
		},
		{
			name:       "array matched by request id",
			data:       `[{"request_batch_id":"other","status":"failed"},{"request_batch_id":"abc","status":"completed","output_file_path":"b.zip"}]`,
			wantState:  StateCompleted,
			wantResult: `"b.zip"`,
		},
		{
			name:      "array with single entry",
			data:      `[{"status":"ongoing"}]`,
			wantState: StateRunning,
		},
		{
			name:       "keyed by id",
			data:       `{"abc":{"status":"completed","output_file_path":"c.pdf"}}`,
			wantState:  StateCompleted,
			wantResult: `"c.pdf"`,
		},
		{
			name:      "unknown status is pending",
			data:      `{"status":"initialized"}`,
			wantState: StatePending,
		},
		{
			name:      "result ignored unless completed",
			data:      `{"status":"running","output_file_path":"partial"}`,
			wantState: StateRunning,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, err := decoder.Decode("abc", json.RawMessage(tc.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if status.State != tc.wantState {
				t.Fatalf("expected %s, got %s", tc.wantState, status.State)
			}
			if string(status.Result) != tc.wantResult {
				t.Fatalf("expected result %q, got %q", tc.wantResult, status.Result)
			}
			if status.Handle != "abc" {
				t.Fatalf("expected handle abc, got %q", status.Handle)
			}
		})
	}
}

func TestDecodeErrorContext(t *testing.T) {
	cases := map[string]string{
		`{"status":"failed","error_context":{"stage":"cutlist"}}`: `{"stage":"cutlist"}`,
		`{"status":"failed","error":"bad branch"}`:                `"bad branch"`,
		`{"status":"failed","error_context":null,"error":"x"}`:    `"x"`,
		`{"status":"failed"}`:                                     ``,
	}

	for data, want := range cases {
		status, err := DefaultDecoder().Decode("abc", json.RawMessage(data))
		if err != nil {
			t.Fatal(err)
		}
		if status.State != StateFailed {
			t.Fatalf("expected failed for %s", data)
		}
		if string(status.ErrorContext) != want {
			t.Fatalf("%s: expected %q, got %q", data, want, status.ErrorContext)
		}
		if status.Result != nil {
			t.Fatalf("failed status must not carry a result")
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	inputs := []string{
		``,
		`null`,
		`"completed"`,
		`{"status":1}`,
		`{"other":{"status":"completed"}}`,
		`[{"status":"running"},{"status":"completed"}]`,
		`{"abc":"completed"}`,
	}

	for _, input := range inputs {
		if _, err := DefaultDecoder().Decode("abc", json.RawMessage(input)); !errors.Is(err, ErrBadStatus) {
			t.Fatalf("%q: expected ErrBadStatus, got %v", input, err)
		}
	}
}

func TestStatusHelpers(t *testing.T) {
	status := Status{State: StateCompleted}
	if err := status.DecodeResult(&struct{}{}); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}

	failed := Status{State: StateFailed, ErrorContext: json.RawMessage(`{"code":7}`)}
	if failed.ErrorMessage() != `{"code":7}` {
		t.Fatalf("unexpected message %q", failed.ErrorMessage())
	}
}
