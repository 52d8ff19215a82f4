// Package cabinets creates parametric cabinet SKUs from component files.
// The component schema (carcass, shutter, partitions, drawers) is
// interpreted by the platform; this package forwards it unchanged.
package cabinets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vin-jex/design-platform-client/internal/jobs"
	"github.com/vin-jex/design-platform-client/internal/transport"
)

const (
	CreateEndpoint = "sku/create_cabinets"
	StatusEndpoint = "sku/get_create_cabinet_status"

	SKUIDsField = "sku_ids"
)

var ErrNoSKUs = errors.New("cabinets: no SKUs to create")

type SKU struct {
	Name          string          `json:"name" yaml:"name"`
	SKUGroupID    string          `json:"sku_group_id" yaml:"sku_group_id"`
	DisplayPicID  string          `json:"display_pic_id,omitempty" yaml:"display_pic_id"`
	Height        float64         `json:"height,omitempty" yaml:"height"`
	ComponentInfo json.RawMessage `json:"component_info" yaml:"-"`
}

type CreationFailedError struct {
	Handle  jobs.Handle
	Context string
}

func (e *CreationFailedError) Error() string {
	return fmt.Sprintf("cabinets: request %s failed: %s", e.Handle, e.Context)
}

type Service struct {
	client       *jobs.Client
	pollInterval time.Duration
	timeout      time.Duration
}

func NewService(
	caller transport.Caller,
	pollInterval time.Duration,
	timeout time.Duration,
	opts ...jobs.Option,
) *Service {
	opts = append([]jobs.Option{jobs.WithResultField(SKUIDsField)}, opts...)

	return &Service{
		client:       jobs.New(caller, StatusEndpoint, opts...),
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

// Create submits every SKU in one request and returns the ids of the
// created SKUs.
func (s *Service) Create(ctx context.Context, skus []SKU) ([]string, error) {
	if len(skus) == 0 {
		return nil, ErrNoSKUs
	}

	for i, sku := range skus {
		if sku.SKUGroupID == "" {
			return nil, fmt.Errorf("cabinets: sku %d (%s) has no sku_group_id", i, sku.Name)
		}
		if len(sku.ComponentInfo) == 0 {
			return nil, fmt.Errorf("cabinets: sku %d (%s) has no component_info", i, sku.Name)
		}
	}

	status, err := s.client.Run(ctx, jobs.JobRequest{
		Endpoint: CreateEndpoint,
		Payload:  skus,
	}, s.pollInterval, s.timeout)
	if err != nil {
		return nil, err
	}

	if status.State == jobs.StateFailed {
		return nil, &CreationFailedError{Handle: status.Handle, Context: status.ErrorMessage()}
	}

	var ids []string
	if err := status.DecodeResult(&ids); err != nil {
		return nil, fmt.Errorf("cabinets: request %s completed without sku ids: %w", status.Handle, err)
	}

	return ids, nil
}

// LoadComponentInfo reads a component file and returns it as JSON. YAML
// files are converted; JSON files are passed through after a syntax check.
func LoadComponentInfo(path string) (json.RawMessage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var value any
		if err := yaml.Unmarshal(content, &value); err != nil {
			return nil, fmt.Errorf("cabinets: parse %s: %w", path, err)
		}
		return json.Marshal(value)
	default:
		if !json.Valid(content) {
			return nil, fmt.Errorf("cabinets: %s is not valid JSON", path)
		}
		return json.RawMessage(content), nil
	}
}

// Manifest is a YAML/JSON file listing SKUs with component files given
// relative to the manifest.
type Manifest struct {
	SKUs []ManifestEntry `yaml:"skus" json:"skus"`
}

type ManifestEntry struct {
	SKU           `yaml:",inline"`
	ComponentFile string `yaml:"component_file" json:"component_file"`
}

func LoadManifest(path string) ([]SKU, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(content, &manifest); err != nil {
		return nil, fmt.Errorf("cabinets: parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	skus := make([]SKU, 0, len(manifest.SKUs))

	for _, entry := range manifest.SKUs {
		sku := entry.SKU

		if entry.ComponentFile != "" {
			componentPath := entry.ComponentFile
			if !filepath.IsAbs(componentPath) {
				componentPath = filepath.Join(base, componentPath)
			}

			info, err := LoadComponentInfo(componentPath)
			if err != nil {
				return nil, err
			}
			sku.ComponentInfo = info
		}

		skus = append(skus, sku)
	}

	return skus, nil
}
