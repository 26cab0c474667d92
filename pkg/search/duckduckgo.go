package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/mimart/storefront/pkg/api"
	"github.com/mimart/storefront/pkg/observability"
)

// userAgent identifies the storefront's fetches to the search engine.
const userAgent = "MiMartBot/1.0 (+https://mimart.example/bot-info)"

// DuckDuckGo queries DuckDuckGo's HTML endpoint and scrapes the result list.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Ensure DuckDuckGo implements Searcher at compile time.
var _ Searcher = (*DuckDuckGo)(nil)

// DuckDuckGoOption configures a DuckDuckGo searcher.
type DuckDuckGoOption func(*DuckDuckGo)

// WithBaseURL overrides the endpoint, mainly for tests.
func WithBaseURL(u string) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the HTTP timeout for search requests.
func WithTimeout(t time.Duration) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.client.Timeout = t }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.logger = l }
}

// NewDuckDuckGo creates a DuckDuckGo searcher.
func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		baseURL: "https://html.duckduckgo.com",
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search performs a search and returns up to maxResults results. Any
// failure (network, non-200 status, unparseable HTML) is logged and yields
// an empty list. Results missing a link or title are filtered out.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) []api.SearchResult {
	params := url.Values{}
	params.Set("q", query)

	u := fmt.Sprintf("%s/html/?%s", d.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		d.logger.Warn("search request build failed", slog.String("error", err.Error()))
		observability.ObserveSearch(false)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("search request failed", slog.String("query", query), slog.String("error", err.Error()))
		observability.ObserveSearch(false)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Warn("search returned non-OK status", slog.String("query", query), slog.Int("status", resp.StatusCode))
		observability.ObserveSearch(false)
		return nil
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		d.logger.Warn("search response parse failed", slog.String("query", query), slog.String("error", err.Error()))
		observability.ObserveSearch(false)
		return nil
	}

	results := parseResults(doc, maxResults)
	d.logger.Info("search completed", slog.String("query", query), slog.Int("results", len(results)))
	observability.ObserveSearch(true)
	return results
}

// parseResults walks the result page and extracts (title, link, snippet)
// triples. DuckDuckGo's HTML endpoint marks result titles with the
// "result__a" anchor class and snippets with "result__snippet".
func parseResults(doc *html.Node, maxResults int) []api.SearchResult {
	var results []api.SearchResult
	var current *api.SearchResult

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				if current != nil && current.Title != "" && current.Link != "" {
					results = append(results, *current)
				}
				current = &api.SearchResult{
					Title: strings.TrimSpace(textContent(n)),
					Link:  resolveRedirect(attr(n, "href")),
				}
			case hasClass(n, "result__snippet"):
				if current != nil {
					current.Snippet = strings.TrimSpace(textContent(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if current != nil && len(results) < maxResults && current.Title != "" && current.Link != "" {
		results = append(results, *current)
	}
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL. Non-redirect links pass through unchanged; scheme-relative
// links get https.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
