package catalog

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	products := c.List()
	if len(products) == 0 {
		t.Fatal("List() returned no products")
	}

	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			t.Errorf("product %+v missing id or name", p)
		}
		if p.Price <= 0 {
			t.Errorf("product %s has non-positive price %d", p.ID, p.Price)
		}
		if p.SpicyLevel < 0 || p.SpicyLevel > 7 {
			t.Errorf("product %s has spicy level %d, want 0..7", p.ID, p.SpicyLevel)
		}
	}
}

func TestGet(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	first := c.List()[0]
	got, ok := c.Get(first.ID)
	if !ok {
		t.Fatalf("Get(%q) not found", first.ID)
	}
	if got.Name != first.Name {
		t.Errorf("Get(%q).Name = %q, want %q", first.ID, got.Name, first.Name)
	}

	if _, ok := c.Get("no-such-product"); ok {
		t.Error("Get(no-such-product) = ok, want not found")
	}
}

func TestSearch(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query    string
		wantSome bool
	}{
		{"hảo hảo", true},
		{"korean", true},
		{"spaghetti", true},
		{"HẢO", true},
		{"zzz-no-match", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.Search(tt.query)
			if tt.wantSome && len(got) == 0 {
				t.Errorf("Search(%q) = none, want matches", tt.query)
			}
			if !tt.wantSome && len(got) != 0 {
				t.Errorf("Search(%q) = %d results, want none", tt.query, len(got))
			}
		})
	}

	if got := c.Search(""); len(got) != len(c.List()) {
		t.Errorf("Search(\"\") = %d results, want full list", len(got))
	}
}

func TestPromptContext(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	ctx := c.PromptContext()
	if ctx == "" {
		t.Fatal("PromptContext() is empty")
	}

	lines := strings.Split(ctx, "\n")
	if len(lines) != len(c.List()) {
		t.Errorf("PromptContext() has %d lines, want one per product (%d)", len(lines), len(c.List()))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, "- ") {
			t.Errorf("line %q does not start with \"- \"", line)
		}
	}
}
