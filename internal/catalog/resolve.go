package catalog

// FindSKU returns the first SKU whose whole combination agrees with the selection.
// Every group the SKU names must be selected with the same option; selection keys
// the SKU does not name are ignored. A partial selection therefore resolves nothing.
func FindSKU(skus []SKU, sel Selection) *SKU {
	for i := range skus {
		if combinationSelected(skus[i].Combination, sel) {
			return &skus[i]
		}
	}
	return nil
}

func combinationSelected(combination map[string]string, sel Selection) bool {
	for groupID, optionID := range combination {
		selected, ok := sel.Get(groupID)
		if !ok || selected != optionID {
			return false
		}
	}
	return true
}

// MatchingSKUs returns the SKUs still reachable from a partial selection: groups
// without a selection are unconstrained.
func MatchingSKUs(skus []SKU, sel Selection) []SKU {
	matches := make([]SKU, 0, len(skus))
	for _, sku := range skus {
		if combinationConsistent(sku.Combination, sel, "") {
			matches = append(matches, sku)
		}
	}
	return matches
}

// combinationConsistent reports whether every selected group, other than skip,
// agrees with the combination.
func combinationConsistent(combination map[string]string, sel Selection, skip string) bool {
	for groupID := range sel {
		if groupID == skip {
			continue
		}
		selected, ok := sel.Get(groupID)
		if !ok {
			continue
		}
		if combination[groupID] != selected {
			return false
		}
	}
	return true
}

// IsOptionAvailable reports whether choosing optionID for groupID can still reach
// a SKU with stock, given the other groups already selected. Products without SKUs
// never restrict their options.
func IsOptionAvailable(skus []SKU, sel Selection, groupID, optionID string) bool {
	if len(skus) == 0 {
		return true
	}
	for _, sku := range skus {
		if sku.Combination[groupID] != optionID {
			continue
		}
		if !combinationConsistent(sku.Combination, sel, groupID) {
			continue
		}
		if sku.AvailableQuantity > 0 {
			return true
		}
	}
	return false
}

// ImagesFor returns the images of the first variant group, in declared order, whose
// selected option carries its own images. Otherwise the product images are returned.
func ImagesFor(product *Product, sel Selection) []string {
	if product == nil {
		return nil
	}
	for _, group := range product.Variants {
		optionID, ok := sel.Get(group.ID)
		if !ok {
			continue
		}
		option := group.Option(optionID)
		if option != nil && len(option.Images) > 0 {
			return option.Images
		}
	}
	return product.Images
}
