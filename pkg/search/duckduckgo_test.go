package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwho.int%2Fnews%2Finstant-noodles&amp;rut=abc">Instant noodles and health</a>
    </h2>
    <a class="result__snippet" href="https://who.int/news/instant-noodles">WHO guidance on <b>instant noodles</b>.</a>
  </div>
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="https://example.com/noodles">Noodle recipes</a>
    </h2>
    <a class="result__snippet" href="https://example.com/noodles">Quick noodle recipes.</a>
  </div>
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="">No link result</a>
    </h2>
  </div>
  <div class="result results_links web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="https://example.org/third">Third result</a>
    </h2>
  </div>
</div>
</body></html>`

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "instant noodles safety" {
			t.Errorf("query param q = %q", got)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(WithBaseURL(srv.URL))
	results := d.Search(context.Background(), "instant noodles safety", 5)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (link-less result filtered)", len(results))
	}
	if results[0].Title != "Instant noodles and health" {
		t.Errorf("results[0].Title = %q", results[0].Title)
	}
	if results[0].Link != "https://who.int/news/instant-noodles" {
		t.Errorf("results[0].Link = %q, want unwrapped redirect", results[0].Link)
	}
	if results[0].Snippet != "WHO guidance on instant noodles." {
		t.Errorf("results[0].Snippet = %q", results[0].Snippet)
	}
	if results[1].Link != "https://example.com/noodles" {
		t.Errorf("results[1].Link = %q", results[1].Link)
	}
}

func TestSearchBoundsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(WithBaseURL(srv.URL))
	results := d.Search(context.Background(), "noodles", 2)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestSearchSoftFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			d := NewDuckDuckGo(WithBaseURL(srv.URL))
			results := d.Search(context.Background(), "noodles", 5)
			if len(results) != 0 {
				t.Errorf("got %d results, want 0 (soft degradation)", len(results))
			}
		})
	}
}

func TestSearchUnreachableEngine(t *testing.T) {
	d := NewDuckDuckGo(WithBaseURL("http://127.0.0.1:1"))
	results := d.Search(context.Background(), "noodles", 5)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0 when the engine is unreachable", len(results))
	}
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"redirect link", "//duckduckgo.com/l/?uddg=https%3A%2F%2Fwho.int%2Fpage&rut=x", "https://who.int/page"},
		{"direct link", "https://example.com/a", "https://example.com/a"},
		{"scheme relative direct", "//example.com/a", "https://example.com/a"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveRedirect(tt.href); got != tt.want {
				t.Errorf("resolveRedirect(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}
