package catalog

import (
	"net/url"
	"strings"
)

// Selection maps a variant group id to the chosen option id.
// Groups that have not been chosen are absent.
type Selection map[string]string

// Get returns the selected option for a group, treating empty values as unset.
func (s Selection) Get(groupID string) (string, bool) {
	optionID, ok := s[groupID]
	if !ok || optionID == "" {
		return "", false
	}
	return optionID, true
}

// Clone returns a copy of the selection without empty values.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for groupID, optionID := range s {
		if optionID != "" {
			out[groupID] = optionID
		}
	}
	return out
}

// With returns a copy of the selection with one group changed.
func (s Selection) With(groupID, optionID string) Selection {
	out := s.Clone()
	if optionID == "" {
		delete(out, groupID)
		return out
	}
	out[groupID] = optionID
	return out
}

// SelectionFromQuery keeps the query parameters named after one of the product's
// variant groups. Unknown parameters and empty values are dropped.
func SelectionFromQuery(product *Product, query url.Values) Selection {
	sel := Selection{}
	if product == nil {
		return sel
	}
	for _, group := range product.Variants {
		value := strings.TrimSpace(query.Get(group.ID))
		if value != "" {
			sel[group.ID] = value
		}
	}
	return sel
}

// ParseSelection reads "group=option" pairs, as typed on a command line.
func ParseSelection(pairs []string) Selection {
	sel := Selection{}
	for _, pair := range pairs {
		groupID, optionID, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		groupID = strings.TrimSpace(groupID)
		optionID = strings.TrimSpace(optionID)
		if groupID != "" && optionID != "" {
			sel[groupID] = optionID
		}
	}
	return sel
}

// Query encodes the selection as URL query parameters.
func (s Selection) Query() url.Values {
	values := url.Values{}
	for groupID, optionID := range s {
		if optionID != "" {
			values.Set(groupID, optionID)
		}
	}
	return values
}

// DefaultSelection returns the combination of the first SKU with stock, or an
// empty selection when every SKU is sold out.
func DefaultSelection(skus []SKU) Selection {
	for _, sku := range skus {
		if sku.AvailableQuantity > 0 {
			return Selection(sku.Combination).Clone()
		}
	}
	return Selection{}
}
