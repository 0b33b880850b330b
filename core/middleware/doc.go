// Package middleware contains HTTP middleware for the status API.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: a unique Request ID (RayID) for every incoming request, stored in the
//     context for logger.WithRayID and echoed in the X-Ray-ID response header.
//
// RayID must be registered first so every later log line carries it.
package middleware
