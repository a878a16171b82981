// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the probe endpoints.
//   - rayid: a unique request id (ray id) per request, stored in the context
//     and echoed in the X-Ray-ID response header for tracing.
package middleware
