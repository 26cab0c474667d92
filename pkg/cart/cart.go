// Package cart defines the cart store interface, its sentinel errors, and
// the derived total computations shared across the storage backends.
//
// A cart is a mapping from product ID to a line (product snapshot plus
// quantity), keyed by an opaque cart ID. Each cart has a single writer (the
// client that owns it), so backends need no conflict resolution beyond
// serializing individual mutations.
package cart

import (
	"context"
	"errors"

	"github.com/mimart/storefront/pkg/api"
)

// Sentinel errors for cart operations.
var (
	// ErrLineNotFound is returned when a quantity update targets a product
	// that has no line in the cart.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrInvalidQuantity is returned for negative quantities.
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// Store is a mutable, persisted mapping from product ID to cart line.
//
// Invariants common to all implementations:
//   - A line's quantity is at least 1 while the line exists.
//   - AddItem preserves insertion order; incrementing an existing line does
//     not reorder it.
//   - UpdateQuantity with quantity 0 is equivalent to RemoveItem.
//   - RemoveItem and Clear are idempotent.
type Store interface {
	// Get returns the cart's lines in insertion order. An unknown cart ID
	// yields an empty cart, not an error.
	Get(ctx context.Context, cartID string) ([]api.CartLine, error)

	// AddItem increments the product's line quantity by 1, inserting a new
	// line with quantity 1 if none exists.
	AddItem(ctx context.Context, cartID string, product api.Product) error

	// RemoveItem deletes the product's line entirely, regardless of quantity.
	RemoveItem(ctx context.Context, cartID, productID string) error

	// UpdateQuantity sets the line's quantity. Quantity 0 removes the line;
	// negative quantities yield ErrInvalidQuantity; updating a missing line
	// with a positive quantity yields ErrLineNotFound.
	UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) error

	// Clear removes every line from the cart.
	Clear(ctx context.Context, cartID string) error

	// Close releases backend resources.
	Close() error
}

// Totals folds the lines into the derived totals: the item count (sum of
// quantities) and the total price (sum of price times quantity).
func Totals(lines []api.CartLine) (items int, price int64) {
	for _, l := range lines {
		items += l.Quantity
		price += l.Price * int64(l.Quantity)
	}
	return items, price
}

// LineFromProduct builds a fresh quantity-1 line from a catalog product.
func LineFromProduct(p api.Product) api.CartLine {
	return api.CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  1,
	}
}
