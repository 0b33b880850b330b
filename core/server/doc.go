// Package server holds the status HTTP server configuration.
//
// The start command builds the Fiber app itself; this package only defines the
// port, the API key guarding the routes, and whether the server runs at all.
package server
