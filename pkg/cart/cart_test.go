package cart

import (
	"testing"

	"github.com/mimart/storefront/pkg/api"
)

func TestTotals(t *testing.T) {
	tests := []struct {
		name      string
		lines     []api.CartLine
		wantItems int
		wantPrice int64
	}{
		{
			name: "empty",
		},
		{
			name: "single line",
			lines: []api.CartLine{
				{ProductID: "hao-hao", Price: 4500, Quantity: 3},
			},
			wantItems: 3,
			wantPrice: 13500,
		},
		{
			name: "multiple lines",
			lines: []api.CartLine{
				{ProductID: "hao-hao", Price: 4500, Quantity: 2},
				{ProductID: "omachi", Price: 8000, Quantity: 1},
				{ProductID: "cung-dinh", Price: 6500, Quantity: 4},
			},
			wantItems: 7,
			wantPrice: 43000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, price := Totals(tt.lines)
			if items != tt.wantItems {
				t.Errorf("items = %d, want %d", items, tt.wantItems)
			}
			if price != tt.wantPrice {
				t.Errorf("price = %d, want %d", price, tt.wantPrice)
			}
		})
	}
}

func TestLineFromProduct(t *testing.T) {
	p := api.Product{
		ID:    "hao-hao",
		Name:  "Hảo Hảo Tôm Chua Cay",
		Price: 4500,
		Image: "/images/hao-hao.jpg",
	}

	line := LineFromProduct(p)
	if line.ProductID != p.ID || line.Name != p.Name || line.Price != p.Price || line.Image != p.Image {
		t.Errorf("line = %+v, want fields copied from %+v", line, p)
	}
	if line.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", line.Quantity)
	}
}
