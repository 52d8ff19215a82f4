package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vin-jex/design-platform-client/internal/transport"
)

// CreateTag returns the id of the new tag. The platform answers with the
// bare id or with an object carrying it.
func (s *Service) CreateTag(ctx context.Context, name string) (string, error) {
	data, err := s.caller.Call(ctx, "tag/add", map[string]any{"name": name})
	if err != nil {
		return "", err
	}

	var id string
	if err := json.Unmarshal(data, &id); err == nil && id != "" {
		return id, nil
	}

	var entity Entity
	if err := json.Unmarshal(data, &entity); err != nil || entity.ID == "" {
		return "", fmt.Errorf("catalog: tag/add returned no id: %s", data)
	}

	return entity.ID, nil
}

func (s *Service) AttachTagsToSKU(ctx context.Context, skuID string, tagIDs []string) error {
	return s.call(ctx, "sku/attach_tags", map[string]any{
		"sku_id":  skuID,
		"tag_ids": tagIDs,
	}, nil)
}

func (s *Service) GetTagsOnSKU(ctx context.Context, skuID string) ([]Entity, error) {
	var tags []Entity
	err := s.call(ctx, "sku/get_tags", map[string]any{"sku_id": skuID}, &tags)
	return tags, err
}

func (s *Service) GetRendersForDesign(ctx context.Context, designID string) ([]Render, error) {
	var renders []Render
	err := s.call(ctx, "rendering/get_renders_for_design", map[string]any{"design_id": designID}, &renders)
	return renders, err
}

// StaticAssetsURL serves render outputs publicly.
const StaticAssetsURL = "https://staticassets.infurnia.com"

// PublicURL is empty until the render completes.
func (r Render) PublicURL() string {
	return transport.ResolveFileURL(StaticAssetsURL, r.OutputFilePath)
}

// CompletedRenders keeps successful renders only; those are the ones with
// an output file.
func CompletedRenders(renders []Render) []Render {
	var completed []Render
	for _, render := range renders {
		if render.Status == "completed" && render.OutputFilePath != "" {
			completed = append(completed, render)
		}
	}
	return completed
}
