// Package memory provides an in-memory cart.Store for testing and
// ephemeral deployments. Carts are lost when the process restarts.
package memory

import (
	"context"
	"sync"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/cart"
)

// Store is an in-memory cart store. Lines are kept in insertion order.
type Store struct {
	mu    sync.RWMutex
	carts map[string][]api.CartLine
}

// Ensure Store implements cart.Store at compile time.
var _ cart.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{carts: make(map[string][]api.CartLine)}
}

// Get returns the cart's lines in insertion order.
func (s *Store) Get(ctx context.Context, cartID string) ([]api.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[cartID]
	out := make([]api.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

// AddItem increments the product's quantity, inserting a new line if needed.
func (s *Store) AddItem(ctx context.Context, cartID string, product api.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[cartID]
	for i := range lines {
		if lines[i].ProductID == product.ID {
			lines[i].Quantity++
			return nil
		}
	}
	s.carts[cartID] = append(lines, cart.LineFromProduct(product))
	return nil
}

// RemoveItem deletes the product's line entirely.
func (s *Store) RemoveItem(ctx context.Context, cartID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[cartID]
	for i := range lines {
		if lines[i].ProductID == productID {
			s.carts[cartID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// UpdateQuantity sets the line's quantity; 0 removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity < 0 {
		return cart.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[cartID]
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			return nil
		}
	}
	return cart.ErrLineNotFound
}

// Clear removes every line from the cart.
func (s *Store) Clear(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, cartID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
