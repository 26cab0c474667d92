package rag

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/mimart/storefront/pkg/observability"
)

// userAgent identifies the storefront's page fetches.
const userAgent = "MiMartBot/1.0 (+https://mimart.example/bot-info)"

// strippedElements are structural and interactive elements removed before
// text extraction: they carry navigation, scripting, and form chrome, not
// page content.
var strippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"nav":      true,
	"footer":   true,
	"header":   true,
	"noscript": true,
	"iframe":   true,
	"button":   true,
	"input":    true,
	"select":   true,
	"textarea": true,
	"aside":    true,
}

var spaceRuns = regexp.MustCompile(`[ \t\r\f]{2,}`)
var newlineRuns = regexp.MustCompile(`\n+`)

// Extractor fetches a URL and extracts the readable text of its primary
// content region. All failures are soft: the extractor logs and returns an
// empty string, never an error.
type Extractor struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithFetchTimeout sets the per-page wall-clock timeout.
func WithFetchTimeout(t time.Duration) ExtractorOption {
	return func(e *Extractor) { e.timeout = t }
}

// WithExtractorLogger sets the structured logger.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) ExtractorOption {
	return func(e *Extractor) { e.client = c }
}

// NewExtractor creates an Extractor with a 5 second per-page timeout.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:  &http.Client{},
		timeout: 5 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract fetches pageURL and returns its extracted plain text, or "" if
// the fetch failed, timed out, returned a non-HTML content type, or yielded
// no text. The timeout aborts the request mid-flight via context
// cancellation.
func (e *Extractor) Extract(ctx context.Context, pageURL string) string {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		e.logger.Warn("page request build failed", slog.String("url", pageURL), slog.String("error", err.Error()))
		observability.ObservePageFetch(false)
		return ""
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("page fetch failed", slog.String("url", pageURL), slog.String("error", err.Error()))
		observability.ObservePageFetch(false)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Warn("page fetch returned non-OK status", slog.String("url", pageURL), slog.Int("status", resp.StatusCode))
		observability.ObservePageFetch(false)
		return ""
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		e.logger.Warn("skipping non-HTML content", slog.String("url", pageURL), slog.String("content_type", contentType))
		observability.ObservePageFetch(false)
		return ""
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		e.logger.Warn("page parse failed", slog.String("url", pageURL), slog.String("error", err.Error()))
		observability.ObservePageFetch(false)
		return ""
	}

	text := ExtractText(doc)
	e.logger.Info("extracted page text", slog.String("url", pageURL), slog.Int("length", len(text)))
	observability.ObservePageFetch(true)
	return text
}

// ExtractText extracts readable text from a parsed document: non-content
// elements are stripped, the primary content region is chosen (<main>,
// falling back to <article>, falling back to the whole body), and runs of
// whitespace are collapsed.
func ExtractText(doc *html.Node) string {
	stripNodes(doc)

	region := findElement(doc, "main")
	if region == nil || !hasText(region) {
		region = findElement(doc, "article")
	}
	if region == nil || !hasText(region) {
		region = findElement(doc, "body")
	}
	if region == nil {
		region = doc
	}

	return collapseWhitespace(collectText(region))
}

// stripNodes removes stripped elements from the tree in place.
func stripNodes(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && strippedElements[c.Data] {
			n.RemoveChild(c)
			continue
		}
		stripNodes(c)
	}
}

// findElement returns the first element with the given tag, depth-first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectText concatenates the text nodes beneath n, separating block-ish
// boundaries with newlines so headings don't fuse into paragraphs.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "br", "tr", "section":
				sb.WriteString("\n")
			}
		}
	}
	walk(n)
	return sb.String()
}

func hasText(n *html.Node) bool {
	return strings.TrimSpace(collectText(n)) != ""
}

// collapseWhitespace collapses runs of spaces and newlines and trims the result.
func collapseWhitespace(s string) string {
	s = spaceRuns.ReplaceAllString(s, " ")
	s = newlineRuns.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
