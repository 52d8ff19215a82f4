// Package reports requests design-branch outputs (pricing quotations,
// cutlists, CNC files, presentation sheets) from the platform and waits
// for the generated file.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vin-jex/design-platform-client/internal/jobs"
	"github.com/vin-jex/design-platform-client/internal/transport"
)

const (
	InitEndpoint   = "core_request/init"
	StatusEndpoint = "core_request/get_status"

	LegacyPricingInitEndpoint   = "pricing_quotation/init_json"
	LegacyPricingStatusEndpoint = "pricing_quotation/get_json_status"

	OutputField = "output_file_path"
)

var ErrNoCommands = errors.New("reports: at least one command is required")

// JobFailedError is returned when the platform reports the report job as
// failed.
type JobFailedError struct {
	Handle  jobs.Handle
	Context string
}

func (e *JobFailedError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("reports: job %s failed", e.Handle)
	}
	return fmt.Sprintf("reports: job %s failed: %s", e.Handle, e.Context)
}

type Request struct {
	DesignBranchID string
	Commands       []Command
}

type Output struct {
	Handle jobs.Handle
	// Path is relative to the server, URL is absolute. With more than one
	// command the file is a zip archive.
	Path string
	URL  string
}

type Service struct {
	core         *jobs.Client
	legacy       *jobs.Client
	serverPath   string
	pollInterval time.Duration
	timeout      time.Duration
}

func NewService(
	caller transport.Caller,
	serverPath string,
	pollInterval time.Duration,
	timeout time.Duration,
	opts ...jobs.Option,
) *Service {
	coreOpts := append([]jobs.Option{jobs.WithResultField(OutputField)}, opts...)

	return &Service{
		core:         jobs.New(caller, StatusEndpoint, coreOpts...),
		legacy:       jobs.New(caller, LegacyPricingStatusEndpoint, coreOpts...),
		serverPath:   serverPath,
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

// Generate submits a core request and blocks until the output is ready.
func (s *Service) Generate(ctx context.Context, request Request) (Output, error) {
	if strings.TrimSpace(request.DesignBranchID) == "" {
		return Output{}, errors.New("reports: design branch id is required")
	}
	if len(request.Commands) == 0 {
		return Output{}, ErrNoCommands
	}

	commands := make([]string, 0, len(request.Commands))
	for _, command := range request.Commands {
		commands = append(commands, string(command))
	}

	return s.run(ctx, s.core, jobs.JobRequest{
		Endpoint: InitEndpoint,
		Payload: map[string]any{
			"commands":         commands,
			"design_branch_id": request.DesignBranchID,
		},
	})
}

// GenerateLegacyPricingJSON uses the older JSON-only pricing endpoints.
func (s *Service) GenerateLegacyPricingJSON(ctx context.Context, designBranchID string) (Output, error) {
	return s.run(ctx, s.legacy, jobs.JobRequest{
		Endpoint: LegacyPricingInitEndpoint,
		Payload: map[string]any{
			"commands":         []string{string(PricingQuotationJSON)},
			"design_branch_id": designBranchID,
		},
	})
}

func (s *Service) run(ctx context.Context, client *jobs.Client, request jobs.JobRequest) (Output, error) {
	status, err := client.Run(ctx, request, s.pollInterval, s.timeout)
	if err != nil {
		return Output{}, err
	}

	if status.State == jobs.StateFailed {
		return Output{}, &JobFailedError{Handle: status.Handle, Context: status.ErrorMessage()}
	}

	var path string
	if err := status.DecodeResult(&path); err != nil {
		return Output{}, fmt.Errorf("reports: job %s completed without output path: %w", status.Handle, err)
	}

	return Output{
		Handle: status.Handle,
		Path:   path,
		URL:    transport.ResolveFileURL(s.serverPath, path),
	}, nil
}
