// Package search provides the web search adapter used by the sommelier
// pipeline. Search unavailability is a soft degradation: adapters log
// failures and return an empty result list instead of an error, so a broken
// search engine never fails the whole request.
package search

import (
	"context"

	"github.com/mimart/storefront/pkg/api"
)

// Searcher queries an external search engine. Implementations return an
// ordered, possibly empty list of results and never a hard error for
// provider-side failures.
type Searcher interface {
	// Search returns up to maxResults results for the free-text query.
	Search(ctx context.Context, query string, maxResults int) []api.SearchResult
}
