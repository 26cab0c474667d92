package memory

import (
	"testing"

	"github.com/mimart/storefront/pkg/cart"
	"github.com/mimart/storefront/pkg/cart/storetest"
)

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) cart.Store {
		return New()
	})
}
