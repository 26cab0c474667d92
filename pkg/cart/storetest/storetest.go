// Package storetest provides a conformance suite that every cart.Store
// implementation must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/cart"
)

// Factory returns a fresh, empty store for each subtest.
type Factory func(t *testing.T) cart.Store

// Run exercises the cart.Store contract against the given factory.
func Run(t *testing.T, newStore Factory) {
	t.Run("EmptyCart", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("AddIncrementsExisting", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := product("hao-hao", 4500)
		require.NoError(t, s.AddItem(ctx, "c1", p))
		require.NoError(t, s.AddItem(ctx, "c1", p))

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("InsertionOrderPreserved", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))
		require.NoError(t, s.AddItem(ctx, "c1", product("b", 200)))
		require.NoError(t, s.AddItem(ctx, "c1", product("c", 300)))
		// Re-adding the first product must not move it to the back.
		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Equal(t, "a", lines[0].ProductID)
		assert.Equal(t, "b", lines[1].ProductID)
		assert.Equal(t, "c", lines[2].ProductID)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("CartsAreIsolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))
		require.NoError(t, s.AddItem(ctx, "c2", product("b", 200)))

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "a", lines[0].ProductID)

		lines, err = s.Get(ctx, "c2")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "b", lines[0].ProductID)
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))
		require.NoError(t, s.RemoveItem(ctx, "c1", "a"))
		require.NoError(t, s.RemoveItem(ctx, "c1", "a"))
		require.NoError(t, s.RemoveItem(ctx, "c1", "never-existed"))

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("UpdateQuantitySets", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))
		require.NoError(t, s.UpdateQuantity(ctx, "c1", "a", 7))

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 7, lines[0].Quantity)
	})

	t.Run("UpdateQuantityZeroRemoves", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))
		require.NoError(t, s.UpdateQuantity(ctx, "c1", "a", 0))

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, lines)

		// Zeroing an absent line is a no-op, matching RemoveItem.
		require.NoError(t, s.UpdateQuantity(ctx, "c1", "a", 0))
	})

	t.Run("UpdateQuantityMissingLine", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.UpdateQuantity(ctx, "c1", "ghost", 2)
		assert.ErrorIs(t, err, cart.ErrLineNotFound)
	})

	t.Run("UpdateQuantityNegative", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))
		err := s.UpdateQuantity(ctx, "c1", "a", -3)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

		// Line is untouched after the rejected update.
		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].Quantity)
	})

	t.Run("Clear", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, "c1", product("a", 100)))
		require.NoError(t, s.AddItem(ctx, "c1", product("b", 200)))
		require.NoError(t, s.AddItem(ctx, "c2", product("c", 300)))

		require.NoError(t, s.Clear(ctx, "c1"))

		lines, err := s.Get(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, lines)

		lines, err = s.Get(ctx, "c2")
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})
}

func product(id string, price int64) api.Product {
	return api.Product{
		ID:    id,
		Name:  "Product " + id,
		Price: price,
		Image: "/images/" + id + ".jpg",
	}
}
