// Package transport builds the HTTP transports shared by the feed, target and
// object storage clients, so every outbound connection gets the same dial, TLS and
// response-header timeouts.
package transport
