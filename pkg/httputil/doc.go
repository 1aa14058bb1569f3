// Package httputil fetches remote graph documents.
//
// # Overview
//
//   - [Client]: GET with a response cache, status classification and retry
//
// The CLI accepts http:// and https:// URLs wherever it takes a graph file
// and reads them through a [Client] backed by the same [cache.Cache] that
// stores colorings, so repeated runs against the same URL stay offline.
//
// # Retry
//
// Fetch goes through errors.Retry, which only retries failures marked
// errors.Transient: network failures, 429 and 5xx responses. A 404 fails
// immediately with NOT_FOUND. The delay doubles after every failed attempt
// and the wait is abandoned when the context is canceled.
package httputil
