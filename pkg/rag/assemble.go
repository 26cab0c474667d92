package rag

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mimart/storefront/pkg/api"
)

// Assembler builds a bounded retrieval context from web search results.
type Assembler struct {
	extractor *Extractor
	logger    *slog.Logger

	maxContextLength int
	maxSnippetLength int
	maxResults       int
	trustedDomains   []string
}

// AssemblerConfig holds the assembly bounds. Zero values fall back to the
// defaults from the original pipeline: 4000-character context, 500-character
// snippets, 3 processed pages.
type AssemblerConfig struct {
	MaxContextLength int
	MaxSnippetLength int
	MaxResults       int
	TrustedDomains   []string
	Logger           *slog.Logger
}

// minPartialBlock is the smallest remaining space worth filling with a
// truncated partial block when the context limit is reached.
const minPartialBlock = 100

// NewAssembler creates an Assembler over the given extractor.
func NewAssembler(extractor *Extractor, cfg AssemblerConfig) *Assembler {
	if cfg.MaxContextLength == 0 {
		cfg.MaxContextLength = 4000
	}
	if cfg.MaxSnippetLength == 0 {
		cfg.MaxSnippetLength = 500
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Assembler{
		extractor:        extractor,
		logger:           cfg.Logger,
		maxContextLength: cfg.MaxContextLength,
		maxSnippetLength: cfg.MaxSnippetLength,
		maxResults:       cfg.MaxResults,
		trustedDomains:   cfg.TrustedDomains,
	}
}

// Assemble ranks the search results, fetches page content for the top ones,
// and concatenates truncated snippets into a bounded context string with
// citation metadata. Per-URL failures are skipped; when nothing could be
// fetched, the context contains only the query header and the citation list
// is empty.
func (a *Assembler) Assemble(ctx context.Context, query string, results []api.SearchResult) api.RAGContext {
	a.logger.Info("assembling retrieval context", slog.String("query", query), slog.Int("candidates", len(results)))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Information related to %q:\n\n", query)

	ranked := a.rank(results)

	var citations []api.Citation
	processed := 0
	for _, result := range ranked {
		if processed >= a.maxResults {
			break
		}
		if sb.Len() >= a.maxContextLength {
			break
		}

		domain := domainName(result.Link)
		if domain == "" {
			a.logger.Warn("skipping result with unparseable URL", slog.String("link", result.Link))
			continue
		}

		text := a.extractor.Extract(ctx, result.Link)
		if text == "" {
			continue
		}
		processed++

		source := sourceName(domain)
		snippet := truncate(text, a.maxSnippetLength)
		citations = append(citations, api.Citation{
			Source: source,
			URL:    result.Link,
			Title:  result.Title,
		})

		block := fmt.Sprintf("Source: %s (%s)\nURL: %s\nContent Snippet:\n%s\n\n---\n\n",
			source, result.Title, result.Link, snippet)

		if sb.Len()+len(block) <= a.maxContextLength {
			sb.WriteString(block)
			continue
		}

		// Limit reached: append a truncated partial block if enough space
		// remains, then stop.
		remaining := a.maxContextLength - sb.Len()
		if remaining > minPartialBlock {
			sb.WriteString(truncate(block, remaining-4) + "...\n")
		}
		a.logger.Warn("context length limit reached", slog.String("query", query))
		break
	}

	return api.RAGContext{
		Text:      strings.TrimSpace(sb.String()),
		Citations: citations,
	}
}

// rank stably partitions results so that trusted-domain results precede the
// rest; relative order within each group is preserved from the input.
func (a *Assembler) rank(results []api.SearchResult) []api.SearchResult {
	ranked := append([]api.SearchResult(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return a.trusted(ranked[i].Link) && !a.trusted(ranked[j].Link)
	})
	return ranked
}

// trusted reports whether the link's domain matches the trusted-domain list.
func (a *Assembler) trusted(link string) bool {
	domain := domainName(link)
	if domain == "" {
		return false
	}
	for _, td := range a.trustedDomains {
		if strings.Contains(domain, td) {
			return true
		}
	}
	return false
}

// domainName extracts the hostname from a URL, without a leading "www.".
// Returns "" for unparseable or host-less URLs.
func domainName(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// sourceName derives a human-readable source label from a domain. A few
// known authorities get fixed labels; everything else uses its first DNS
// label uppercased.
func sourceName(domain string) string {
	switch {
	case strings.Contains(domain, "who.int"):
		return "WHO"
	case strings.Contains(domain, "food.gov.uk"),
		strings.Contains(domain, "ratings.food.gov.uk"),
		strings.Contains(domain, "gov.uk/government/organisations/food-standards-agency"):
		return "UK FSA"
	case strings.Contains(domain, "efsa.europa.eu"):
		return "EU EFSA"
	case strings.Contains(domain, "food.ec.europa.eu"),
		strings.Contains(domain, "ec.europa.eu"),
		strings.Contains(domain, "commission.europa.eu"),
		strings.Contains(domain, "europa.eu"):
		return "EU Commission/Portal"
	}

	if label, _, found := strings.Cut(domain, "."); found && label != "" {
		return strings.ToUpper(label)
	}
	return domain
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence,
// so Vietnamese page text never leaves a broken rune at the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
