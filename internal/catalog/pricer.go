package catalog

// Package catalog provides price calculation functionality.

import (
	"github.com/shopspring/decimal"
)

const LowStockThreshold = 10

type StockStatus string

const (
	StockOut StockStatus = "out_of_stock"
	StockLow StockStatus = "low_stock"
	StockIn  StockStatus = "in_stock"
)

// Derived is the price and stock of the currently resolved SKU.
type Derived struct {
	SKU               *SKU  `json:"sku"`
	Resolved          bool  `json:"resolved"`
	Price             Price `json:"price"`
	AvailableQuantity int   `json:"availableQuantity"`
	OutOfStock        bool  `json:"outOfStock"`
}

type Pricer struct{}

func NewPricer() *Pricer {
	return &Pricer{}
}

// Derive applies the SKU price modifier to the base price. Without a resolved SKU
// the base price is kept and the available quantity is zero.
func (p *Pricer) Derive(base Price, sku *SKU) Derived {
	if sku == nil {
		return Derived{Price: base}
	}

	price := base
	price.Amount = addModifier(base.Amount, sku.PriceModifier)
	price.OriginalAmount = nil
	if base.OriginalAmount != nil {
		original := addModifier(*base.OriginalAmount, sku.PriceModifier)
		price.OriginalAmount = &original
	}

	return Derived{
		SKU:               sku,
		Resolved:          true,
		Price:             price,
		AvailableQuantity: sku.AvailableQuantity,
		OutOfStock:        sku.AvailableQuantity == 0,
	}
}

// Resolve finds the SKU for the selection and derives its price.
func (p *Pricer) Resolve(product *Product, sel Selection) Derived {
	return p.Derive(product.Price, FindSKU(product.SKUs, sel))
}

// Derive is a shorthand for NewPricer().Derive.
func Derive(base Price, sku *SKU) Derived {
	return NewPricer().Derive(base, sku)
}

func addModifier(amount, modifier float64) float64 {
	return decimal.NewFromFloat(amount).Add(decimal.NewFromFloat(modifier)).InexactFloat64()
}

// Stock classifies an available quantity for display.
func Stock(availableQuantity int) StockStatus {
	switch {
	case availableQuantity <= 0:
		return StockOut
	case availableQuantity < LowStockThreshold:
		return StockLow
	default:
		return StockIn
	}
}

// DiscountPercent returns the advertised discount when the price carries both a
// discount and an original amount.
func DiscountPercent(price Price) (float64, bool) {
	if price.Discount == nil || price.OriginalAmount == nil {
		return 0, false
	}
	if *price.Discount == 0 || *price.OriginalAmount == 0 {
		return 0, false
	}
	return *price.Discount, true
}
