package catalog

import (
	"context"
	"encoding/json"
	"fmt"
)

// CreateMaterial creates a material from a template. The platform expects
// properties as a JSON string; textureID, when set, becomes the map
// property.
func (s *Service) CreateMaterial(ctx context.Context, name, templateID string, properties map[string]any, textureID string) (Entity, error) {
	merged := make(map[string]any, len(properties)+1)
	for key, value := range properties {
		merged[key] = value
	}
	if textureID != "" {
		merged["map"] = textureID
	}

	encoded, err := json.Marshal(merged)
	if err != nil {
		return Entity{}, fmt.Errorf("catalog: encode material properties: %w", err)
	}

	var created Entity
	err = s.call(ctx, "material/add", map[string]any{
		"name":                 name,
		"material_template_id": templateID,
		"properties":           string(encoded),
	}, &created)
	return created, err
}

// BulkCreateSKUs opens an upload attempt on the category and triggers it
// with the SKU rows.
func (s *Service) BulkCreateSKUs(ctx context.Context, categoryID string, skus []NewSKU) ([]Entity, error) {
	var attempt Entity
	if err := s.call(ctx, "sku_bulk_operation/create_attempt", map[string]any{
		"sku_category_id": categoryID,
		"type":            "upload",
	}, &attempt); err != nil {
		return nil, fmt.Errorf("catalog: create bulk attempt: %w", err)
	}

	var created []Entity
	if err := s.call(ctx, "sku_bulk_operation/trigger_attempt", map[string]any{
		"bulk_operation_attempt_id": attempt.ID,
		"data":                      skus,
	}, &created); err != nil {
		return nil, fmt.Errorf("catalog: trigger bulk attempt %s: %w", attempt.ID, err)
	}

	s.logger.InfoContext(ctx, "bulk created skus", "attempt_id", attempt.ID, "count", len(created))
	return created, nil
}

// UpdateSKU patches the given attributes of a SKU.
func (s *Service) UpdateSKU(ctx context.Context, skuID string, fields map[string]any) (json.RawMessage, error) {
	body := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		body[key] = value
	}
	body["id"] = skuID

	var updated json.RawMessage
	err := s.call(ctx, "sku/update", body, &updated)
	return updated, err
}

func (s *Service) AddBrand(ctx context.Context, name string) (Entity, error) {
	var created Entity
	err := s.call(ctx, "brand/add", map[string]any{"name": name}, &created)
	return created, err
}

func (s *Service) GetBrands(ctx context.Context) ([]Entity, error) {
	var brands []Entity
	err := s.call(ctx, "brand/get", nil, &brands)
	return brands, err
}
