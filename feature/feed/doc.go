// Package feed is the HTTP client for the upstream package feed.
//
// # Endpoints
//
//   - GET {url}/api/v2/feed-state : every package family with its versions and publish dates.
//   - GET {url}/api/v2/package/{id}/{version} : the raw package artifact.
//
// Publish dates travel as tick counts and are converted to time.Time on decode.
// Downloads are streamed; the body is never buffered in memory.
package feed
