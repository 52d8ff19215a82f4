package catalog

import (
	"context"
	"errors"
	"fmt"
)

func (s *Service) FetchSKUCategoryTypes(ctx context.Context) ([]SKUCategoryType, error) {
	var types []SKUCategoryType
	err := s.call(ctx, "sku_category_type/get", nil, &types)
	return types, err
}

func (s *Service) FetchSalesChannels(ctx context.Context) ([]SalesChannel, error) {
	var channels []SalesChannel
	err := s.call(ctx, "sales_channel/get", nil, &channels)
	return channels, err
}

func (s *Service) FetchMaterialTemplates(ctx context.Context) ([]MaterialTemplate, error) {
	var templates []MaterialTemplate
	err := s.call(ctx, "material_template/get", nil, &templates)
	return templates, err
}

func (s *Service) StoreInfo(ctx context.Context) (StoreInfo, error) {
	var info StoreInfo
	err := s.call(ctx, "store/get_info", nil, &info)
	return info, err
}

func (s *Service) CreateSKUCategory(ctx context.Context, name, categoryTypeID, divisionID string) (Entity, error) {
	var created Entity
	err := s.call(ctx, "sku_category/add", map[string]any{
		"name":                 name,
		"sku_category_type_id": categoryTypeID,
		"sku_division_id":      divisionID,
	}, &created)
	if err == nil {
		s.logger.InfoContext(ctx, "created sku category", "id", created.ID)
	}
	return created, err
}

func (s *Service) CreateSKUSubCategory(ctx context.Context, name, categoryID string, order int) (Entity, error) {
	var created Entity
	err := s.call(ctx, "sku_sub_category/add", map[string]any{
		"name":            name,
		"sku_category_id": categoryID,
		"order":           order,
	}, &created)
	if err == nil {
		s.logger.InfoContext(ctx, "created sku sub category", "id", created.ID)
	}
	return created, err
}

func (s *Service) CreateSKUGroup(ctx context.Context, name, subCategoryID string, order int) (Entity, error) {
	var created Entity
	err := s.call(ctx, "sku_group/add", map[string]any{
		"name":                name,
		"sku_sub_category_id": subCategoryID,
		"order":               order,
	}, &created)
	if err == nil {
		s.logger.InfoContext(ctx, "created sku group", "id", created.ID)
	}
	return created, err
}

// GetAllSubCategories returns the division/category/sub-category tree.
// An empty businessUnitID covers the whole store.
func (s *Service) GetAllSubCategories(ctx context.Context, businessUnitID string) ([]Division, error) {
	var body map[string]any
	if businessUnitID != "" {
		body = map[string]any{"business_unit_id": businessUnitID}
	}

	var divisions []Division
	err := s.call(ctx, "inventory/get_all_sub_categories", body, &divisions)
	return divisions, err
}

func (s *Service) GetGroups(ctx context.Context, subCategoryID, businessUnitID string) ([]GroupWithSKUs, error) {
	body := map[string]any{"sku_sub_category_id": subCategoryID}
	if businessUnitID != "" {
		body["business_unit_id"] = businessUnitID
	}

	var groups []GroupWithSKUs
	err := s.call(ctx, "inventory/get_groups", body, &groups)
	return groups, err
}

func (s *Service) RemoveSKUs(ctx context.Context, ids []string) error {
	return s.removeFromStore(ctx, "sku/remove_from_store", ids)
}

// RemoveSKUGroups only works for groups owned by the store.
func (s *Service) RemoveSKUGroups(ctx context.Context, ids []string) error {
	return s.removeFromStore(ctx, "sku_group/remove_from_store", ids)
}

// DeprecateSKUSubCategory requires every group under it to be removed
// first.
func (s *Service) DeprecateSKUSubCategory(ctx context.Context, id string) error {
	return s.call(ctx, "sku_sub_category/deprecate", map[string]any{"id": id}, nil)
}

// DeprecateSKUCategory requires every sub-category under it to be removed
// first.
func (s *Service) DeprecateSKUCategory(ctx context.Context, id string) error {
	return s.call(ctx, "sku_category/deprecate", map[string]any{"id": id}, nil)
}

func (s *Service) removeFromStore(ctx context.Context, endpoint string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	encoded, err := identifiers(ids)
	if err != nil {
		return err
	}

	if err := s.call(ctx, endpoint, map[string]any{"identifiers": encoded}, nil); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "removed from store", "endpoint", endpoint, "count", len(ids))
	return nil
}

// RemovalReport counts what RemoveInventory removed.
type RemovalReport struct {
	SKUs          int
	Groups        int
	SubCategories int
	Categories    int
}

// RemoveInventory empties the store's inventory in the business unit.
// Owned groups are removed directly; SKUs in groups owned by other stores
// are removed one by one, which unmaps the foreign group and, in turn, its
// sub-category and category. Owned sub-categories and categories are
// deprecated last. A failure in one sub-category does not stop the rest;
// all failures are joined into the returned error.
func (s *Service) RemoveInventory(ctx context.Context, businessUnitID string) (RemovalReport, error) {
	var report RemovalReport

	if businessUnitID == "" {
		info, err := s.StoreInfo(ctx)
		if err != nil {
			return report, fmt.Errorf("catalog: fetch store info: %w", err)
		}
		businessUnitID = info.DefaultBusinessUnitID
	}

	hierarchy, err := s.GetAllSubCategories(ctx, businessUnitID)
	if err != nil {
		return report, fmt.Errorf("catalog: fetch hierarchy: %w", err)
	}

	var errs []error

	for _, division := range hierarchy {
		for _, category := range division.Categories {
			for _, subCategory := range category.SubCategories {
				removed, err := s.removeSubCategory(ctx, subCategory, businessUnitID)
				report.SKUs += removed.SKUs
				report.Groups += removed.Groups
				report.SubCategories += removed.SubCategories
				if err != nil {
					errs = append(errs, fmt.Errorf("sub category %s: %w", subCategory.ID, err))
				}
			}
		}
	}

	for _, division := range hierarchy {
		for _, category := range division.Categories {
			if category.StoreID != s.storeID {
				continue
			}
			if err := s.DeprecateSKUCategory(ctx, category.ID); err != nil {
				errs = append(errs, fmt.Errorf("category %s: %w", category.ID, err))
				continue
			}
			report.Categories++
		}
	}

	return report, errors.Join(errs...)
}

// ErrSubCategoryNotFound is returned when an id is absent from the
// business unit's hierarchy.
var ErrSubCategoryNotFound = errors.New("catalog: sub category not found")

// RemoveSubCategoryTree clears one sub-category bottom-up the same way
// RemoveInventory does: groups and SKUs first, then the sub-category
// itself when the store owns it.
func (s *Service) RemoveSubCategoryTree(ctx context.Context, subCategoryID, businessUnitID string) (RemovalReport, error) {
	hierarchy, err := s.GetAllSubCategories(ctx, businessUnitID)
	if err != nil {
		return RemovalReport{}, fmt.Errorf("catalog: fetch hierarchy: %w", err)
	}

	for _, division := range hierarchy {
		for _, category := range division.Categories {
			for _, subCategory := range category.SubCategories {
				if subCategory.ID == subCategoryID {
					return s.removeSubCategory(ctx, subCategory, businessUnitID)
				}
			}
		}
	}

	return RemovalReport{}, fmt.Errorf("%w: %s", ErrSubCategoryNotFound, subCategoryID)
}

func (s *Service) removeSubCategory(ctx context.Context, subCategory OwnedEntry, businessUnitID string) (RemovalReport, error) {
	var report RemovalReport

	groups, err := s.GetGroups(ctx, subCategory.ID, businessUnitID)
	if err != nil {
		return report, err
	}

	var ownedGroups, foreignSKUs []string
	for _, group := range groups {
		if group.StoreID == s.storeID {
			ownedGroups = append(ownedGroups, group.ID)
			continue
		}
		for _, sku := range group.SKUs {
			foreignSKUs = append(foreignSKUs, sku.ID)
		}
	}

	// Foreign SKUs are removed even when the owned groups could not be.
	var errs []error

	if err := s.RemoveSKUGroups(ctx, ownedGroups); err != nil {
		errs = append(errs, fmt.Errorf("remove groups: %w", err))
	} else {
		report.Groups = len(ownedGroups)
	}

	if err := s.RemoveSKUs(ctx, foreignSKUs); err != nil {
		errs = append(errs, fmt.Errorf("remove skus: %w", err))
	} else {
		report.SKUs = len(foreignSKUs)
	}

	// A sub-category with anything left under it cannot be deprecated.
	if len(errs) == 0 && subCategory.StoreID == s.storeID {
		if err := s.DeprecateSKUSubCategory(ctx, subCategory.ID); err != nil {
			errs = append(errs, err)
		} else {
			report.SubCategories = 1
		}
	}

	return report, errors.Join(errs...)
}
