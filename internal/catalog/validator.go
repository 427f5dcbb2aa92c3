package catalog

// Package catalog provides catalog data validation.

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// IsValidSlug reports whether s is already in canonical slug form.
func IsValidSlug(s string) bool {
	return slug.IsSlug(s)
}

// Validate checks the whole catalog and joins every problem found.
// It returns nil for a consistent catalog.
func (v *Validator) Validate(products []Product) error {
	var errs []error

	ids := make(map[string]bool)
	slugs := make(map[string]bool)
	for i, product := range products {
		if err := v.validateProduct(&product); err != nil {
			errs = append(errs, fmt.Errorf("product %d (%s) validation failed: %w", i, product.Slug, err))
		}

		if product.ID != "" {
			if ids[product.ID] {
				errs = append(errs, fmt.Errorf("duplicate product id: %s", product.ID))
			}
			ids[product.ID] = true
		}
		if product.Slug != "" {
			if slugs[product.Slug] {
				errs = append(errs, fmt.Errorf("duplicate product slug: %s", product.Slug))
			}
			slugs[product.Slug] = true
		}
	}

	return errors.Join(errs...)
}

func (v *Validator) validateProduct(product *Product) error {
	var errs []error

	if strings.TrimSpace(product.ID) == "" {
		errs = append(errs, fmt.Errorf("product id is required"))
	}

	if strings.TrimSpace(product.Slug) == "" {
		errs = append(errs, fmt.Errorf("product slug is required"))
	} else if !IsValidSlug(product.Slug) {
		errs = append(errs, fmt.Errorf("product slug %q is not a canonical slug (want %q)", product.Slug, slug.Make(product.Slug)))
	}

	if strings.TrimSpace(product.Title) == "" {
		errs = append(errs, fmt.Errorf("product title is required"))
	}

	if product.Price.Amount <= 0 {
		errs = append(errs, fmt.Errorf("product price must be positive"))
	}

	if strings.TrimSpace(product.Price.Currency) == "" {
		errs = append(errs, fmt.Errorf("product currency is required"))
	}

	if product.AvailableQuantity < 0 {
		errs = append(errs, fmt.Errorf("product available quantity must be zero or positive"))
	}

	options := make(map[string]map[string]bool)
	for i, group := range product.Variants {
		if err := v.validateGroup(&group); err != nil {
			errs = append(errs, fmt.Errorf("variant group %d validation failed: %w", i, err))
		}
		if _, exists := options[group.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate variant group id: %s", group.ID))
		}
		ids := make(map[string]bool, len(group.Options))
		for _, option := range group.Options {
			ids[option.ID] = true
		}
		options[group.ID] = ids
	}

	combinations := make(map[string]string)
	for i, sku := range product.SKUs {
		if err := v.validateSKU(&sku, options); err != nil {
			errs = append(errs, fmt.Errorf("sku %d validation failed: %w", i, err))
		}

		key := combinationKey(sku.Combination)
		if other, exists := combinations[key]; exists {
			errs = append(errs, fmt.Errorf("sku %s duplicates the combination of sku %s", sku.ID, other))
			continue
		}
		combinations[key] = sku.ID
	}

	return errors.Join(errs...)
}

func (v *Validator) validateGroup(group *VariantGroup) error {
	if strings.TrimSpace(group.ID) == "" {
		return fmt.Errorf("variant group id is required")
	}

	switch group.Type {
	case VariantTypeColor, VariantTypeStorage, VariantTypeSize, VariantTypeOther:
	default:
		return fmt.Errorf("unsupported variant type: %s", group.Type)
	}

	if len(group.Options) == 0 {
		return fmt.Errorf("variant options cannot be empty")
	}

	seen := make(map[string]bool)
	for _, option := range group.Options {
		if strings.TrimSpace(option.ID) == "" {
			return fmt.Errorf("variant option id is required")
		}
		if seen[option.ID] {
			return fmt.Errorf("duplicate variant option id: %s", option.ID)
		}
		seen[option.ID] = true
	}

	return nil
}

func (v *Validator) validateSKU(sku *SKU, options map[string]map[string]bool) error {
	if strings.TrimSpace(sku.ID) == "" {
		return fmt.Errorf("sku id is required")
	}

	if sku.AvailableQuantity < 0 {
		return fmt.Errorf("sku available quantity must be zero or positive")
	}

	groupIDs := make([]string, 0, len(sku.Combination))
	for groupID := range sku.Combination {
		groupIDs = append(groupIDs, groupID)
	}
	sort.Strings(groupIDs)

	for _, groupID := range groupIDs {
		optionID := sku.Combination[groupID]
		groupOptions, ok := options[groupID]
		if !ok {
			return fmt.Errorf("sku %s references unknown variant group %s", sku.ID, groupID)
		}
		if !groupOptions[optionID] {
			return fmt.Errorf("sku %s references unknown option %s in group %s", sku.ID, optionID, groupID)
		}
	}

	return nil
}

func combinationKey(combination map[string]string) string {
	pairs := make([]string, 0, len(combination))
	for groupID, optionID := range combination {
		pairs = append(pairs, groupID+"="+optionID)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}
