// Package catalog serves the static product catalog. The catalog is
// reference data compiled into the binary: it never changes at runtime and
// is safe for concurrent reads.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mimart/storefront/pkg/api"
)

//go:embed products.json
var productsJSON []byte

// Catalog holds the product list and an index by ID.
type Catalog struct {
	products []api.Product
	byID     map[string]api.Product
}

// Load parses the embedded catalog. It fails only on a malformed embedded
// file, which is a build defect rather than a runtime condition.
func Load() (*Catalog, error) {
	var doc struct {
		Products []api.Product `json:"products"`
	}
	if err := json.Unmarshal(productsJSON, &doc); err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	if len(doc.Products) == 0 {
		return nil, fmt.Errorf("embedded catalog is empty")
	}

	byID := make(map[string]api.Product, len(doc.Products))
	for _, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("embedded catalog entry %q has no id", p.Name)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("embedded catalog has duplicate id %q", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{products: doc.Products, byID: byID}, nil
}

// List returns all products in catalog order.
func (c *Catalog) List() []api.Product {
	out := make([]api.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given ID.
func (c *Catalog) Get(id string) (api.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Search returns products whose name, category, or description contains the
// query, case-insensitively. An empty query returns the full list.
func (c *Catalog) Search(query string) []api.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.List()
	}

	var out []api.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Category), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			out = append(out, p)
		}
	}
	return out
}

// PromptContext renders the product list as the block injected into
// assistant prompts, so the model can recommend items the shop actually
// stocks.
func (c *Catalog) PromptContext() string {
	var sb strings.Builder
	for _, p := range c.products {
		spicy := "none"
		if p.SpicyLevel > 0 {
			spicy = fmt.Sprintf("%d/7", p.SpicyLevel)
		}
		fmt.Fprintf(&sb, "- %s (%s): %dđ - %s (spicy: %s)\n",
			p.Name, p.Category, p.Price, p.Description, spicy)
	}
	return strings.TrimRight(sb.String(), "\n")
}
