// Package probe runs bounded connectivity and schema checks against a hosted
// backend: auth introspection, a one-row table read, an insert/read/delete
// round trip and an optional storage bucket check. Every probe returns a
// Result; only configuration errors escape as Go errors.
package probe
