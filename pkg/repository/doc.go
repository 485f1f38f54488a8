// Package repository provides the shared HTTP client used to read a
// Maven-layout artifact repository exposed as browsable HTML directory
// listings.
//
// # Client
//
// One [Client] is created per run and passed explicitly to the crawler and
// the resolver. It is safe for concurrent use and layers, from the outside in:
//
//   - an in-memory LRU of recently fetched documents
//   - a persistent [cache.Cache] shared across runs
//   - a token-bucket rate limiter bounding requests per second
//   - retry with exponential backoff for transient failures (5xx, connection errors)
//   - a per-attempt timeout
//
// # Listings
//
// [Client.List] fetches a directory page and classifies its anchors with
// [ParseListing]: hrefs ending in "/" are sub-directories, everything else
// is a file. Parent links and self links are dropped.
package repository
