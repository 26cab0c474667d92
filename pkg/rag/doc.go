// Package rag implements the retrieval pipeline behind the sommelier
// endpoint: fetching search-result pages, extracting their readable text,
// and assembling a bounded context string with citation metadata for the
// generation call.
//
// The pipeline is best-effort throughout. Individual page failures
// (timeouts, non-HTML responses, unparseable markup) are logged and
// skipped; only the total absence of any successful fetch yields a context
// containing just the query header.
package rag
