package catalog

// ProductView is everything a product page needs for one variant selection.
type ProductView struct {
	Product           *Product       `json:"product"`
	Selection         Selection      `json:"selection"`
	SKU               *SKU           `json:"sku"`
	Price             Price          `json:"price"`
	Discount          *float64       `json:"discount,omitempty"`
	AvailableQuantity int            `json:"availableQuantity"`
	OutOfStock        bool           `json:"outOfStock"`
	Stock             *StockView     `json:"stock,omitempty"`
	Images            []string       `json:"images"`
	Variants          []VariantView  `json:"variants"`
	Payments          PaymentSummary `json:"payments"`
	Reviews           ReviewSummary  `json:"reviews"`
	Seller            SellerSummary  `json:"seller"`
}

type StockView struct {
	Status            StockStatus `json:"status"`
	AvailableQuantity int         `json:"availableQuantity"`
}

type VariantView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     VariantType  `json:"type"`
	Required bool         `json:"required"`
	Selected string       `json:"selected,omitempty"`
	Options  []OptionView `json:"options"`
}

type OptionView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	Hex       string `json:"hex,omitempty"`
	Selected  bool   `json:"selected"`
	Available bool   `json:"available"`
}

// BuildView resolves the selection against the product. Query keys that are not
// variant groups are dropped; an empty selection falls back to the first SKU in stock.
func BuildView(product *Product, sel Selection) ProductView {
	clean := Selection{}
	for _, group := range product.Variants {
		if optionID, ok := sel.Get(group.ID); ok {
			clean[group.ID] = optionID
		}
	}
	if len(clean) == 0 && len(product.Variants) > 0 {
		clean = DefaultSelection(product.SKUs)
	}

	derived := NewPricer().Resolve(product, clean)

	view := ProductView{
		Product:           product,
		Selection:         clean,
		SKU:               derived.SKU,
		Price:             derived.Price,
		AvailableQuantity: derived.AvailableQuantity,
		OutOfStock:        derived.OutOfStock,
		Images:            ImagesFor(product, clean),
		Variants:          make([]VariantView, 0, len(product.Variants)),
		Payments:          SummarizePayments(product.PaymentMethods),
		Reviews:           SummarizeReviews(product.Reviews),
		Seller:            SummarizeSeller(product.Seller),
	}
	if view.Images == nil {
		view.Images = []string{}
	}
	if discount, ok := DiscountPercent(derived.Price); ok {
		view.Discount = &discount
	}
	if derived.Resolved {
		view.Stock = &StockView{
			Status:            Stock(derived.AvailableQuantity),
			AvailableQuantity: derived.AvailableQuantity,
		}
	}

	for _, group := range product.Variants {
		selected, _ := clean.Get(group.ID)
		gv := VariantView{
			ID:       group.ID,
			Name:     group.Name,
			Type:     group.Type,
			Required: group.Required,
			Selected: selected,
			Options:  make([]OptionView, 0, len(group.Options)),
		}
		for _, option := range group.Options {
			gv.Options = append(gv.Options, OptionView{
				ID:        option.ID,
				Label:     option.Label,
				Value:     option.Value,
				Hex:       option.Hex,
				Selected:  option.ID == selected,
				Available: IsOptionAvailable(product.SKUs, clean, group.ID, option.ID),
			})
		}
		view.Variants = append(view.Variants, gv)
	}

	return view
}
