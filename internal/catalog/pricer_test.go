package catalog

import (
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestPricer_Derive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		base         Price
		sku          *SKU
		wantAmount   float64
		wantOriginal *float64
		wantQty      int
		wantOut      bool
		wantResolved bool
	}{
		{
			name:       "no sku keeps base price and reports no stock",
			base:       Price{Amount: 100, Currency: "USD"},
			sku:        nil,
			wantAmount: 100,
		},
		{
			name:         "modifier is added to amount",
			base:         Price{Amount: 100, Currency: "USD"},
			sku:          &SKU{ID: "a", PriceModifier: 20, AvailableQuantity: 4},
			wantAmount:   120,
			wantQty:      4,
			wantResolved: true,
		},
		{
			name:         "modifier is added to original amount",
			base:         Price{Amount: 90, Currency: "USD", OriginalAmount: floatPtr(120), Discount: floatPtr(25)},
			sku:          &SKU{ID: "a", PriceModifier: 15, AvailableQuantity: 1},
			wantAmount:   105,
			wantOriginal: floatPtr(135),
			wantQty:      1,
			wantResolved: true,
		},
		{
			name:         "negative modifier",
			base:         Price{Amount: 0.3, Currency: "USD"},
			sku:          &SKU{ID: "a", PriceModifier: -0.1, AvailableQuantity: 2},
			wantAmount:   0.2,
			wantQty:      2,
			wantResolved: true,
		},
		{
			name:         "zero quantity is out of stock",
			base:         Price{Amount: 100, Currency: "USD"},
			sku:          &SKU{ID: "a", AvailableQuantity: 0},
			wantAmount:   100,
			wantOut:      true,
			wantResolved: true,
		},
	}

	pricer := NewPricer()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := pricer.Derive(tt.base, tt.sku)

			if got.Price.Amount != tt.wantAmount {
				t.Errorf("expected amount %v, got %v", tt.wantAmount, got.Price.Amount)
			}
			if got.Price.Currency != tt.base.Currency {
				t.Errorf("expected currency %s, got %s", tt.base.Currency, got.Price.Currency)
			}
			switch {
			case tt.wantOriginal == nil && got.Price.OriginalAmount != nil:
				t.Errorf("expected no original amount, got %v", *got.Price.OriginalAmount)
			case tt.wantOriginal != nil && got.Price.OriginalAmount == nil:
				t.Errorf("expected original amount %v, got nil", *tt.wantOriginal)
			case tt.wantOriginal != nil && *got.Price.OriginalAmount != *tt.wantOriginal:
				t.Errorf("expected original amount %v, got %v", *tt.wantOriginal, *got.Price.OriginalAmount)
			}
			if got.AvailableQuantity != tt.wantQty {
				t.Errorf("expected quantity %d, got %d", tt.wantQty, got.AvailableQuantity)
			}
			if got.OutOfStock != tt.wantOut {
				t.Errorf("expected out of stock %v, got %v", tt.wantOut, got.OutOfStock)
			}
			if got.Resolved != tt.wantResolved {
				t.Errorf("expected resolved %v, got %v", tt.wantResolved, got.Resolved)
			}
		})
	}
}

func TestPricer_DeriveDoesNotMutateBase(t *testing.T) {
	t.Parallel()

	original := 200.0
	base := Price{Amount: 150, Currency: "ARS", OriginalAmount: &original}

	_ = Derive(base, &SKU{PriceModifier: 50})

	if base.Amount != 150 || *base.OriginalAmount != 200 {
		t.Fatalf("base price was mutated: %+v (original %v)", base, *base.OriginalAmount)
	}
}

func TestPricer_Resolve(t *testing.T) {
	t.Parallel()

	product := &Product{
		Price: Price{Amount: 100, Currency: "USD"},
		SKUs:  apparelSKUs(),
	}

	pricer := NewPricer()

	got := pricer.Resolve(product, Selection{"color": "blue", "size": "m"})
	if !got.Resolved || got.AvailableQuantity != 0 || !got.OutOfStock {
		t.Fatalf("expected resolved sold out sku, got %+v", got)
	}

	got = pricer.Resolve(product, Selection{"color": "blue", "size": "l"})
	if got.Price.Amount != 110 || got.AvailableQuantity != 3 || got.OutOfStock {
		t.Fatalf("unexpected derived price: %+v", got)
	}

	got = pricer.Resolve(product, Selection{"color": "red"})
	if got.Resolved || got.AvailableQuantity != 0 || got.OutOfStock || got.Price.Amount != 100 {
		t.Fatalf("expected unresolved base price, got %+v", got)
	}
}

func TestStock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		qty  int
		want StockStatus
	}{
		{qty: 0, want: StockOut},
		{qty: 1, want: StockLow},
		{qty: 9, want: StockLow},
		{qty: 10, want: StockIn},
		{qty: 250, want: StockIn},
	}

	for _, tt := range tests {
		if got := Stock(tt.qty); got != tt.want {
			t.Errorf("Stock(%d): got=%s want=%s", tt.qty, got, tt.want)
		}
	}
}

func TestDiscountPercent(t *testing.T) {
	t.Parallel()

	if _, ok := DiscountPercent(Price{Amount: 10, Discount: floatPtr(10)}); ok {
		t.Fatalf("expected no discount without original amount")
	}
	if _, ok := DiscountPercent(Price{Amount: 10, OriginalAmount: floatPtr(12), Discount: floatPtr(0)}); ok {
		t.Fatalf("expected no discount for zero discount")
	}
	got, ok := DiscountPercent(Price{Amount: 10, OriginalAmount: floatPtr(12), Discount: floatPtr(17)})
	if !ok || got != 17 {
		t.Fatalf("unexpected discount: got=%v ok=%v", got, ok)
	}
}
