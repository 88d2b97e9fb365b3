// Package groups reconciles directory-derived group membership with
// locally managed group assignment, and seeds the process-wide role
// registry from the configured group map.
package groups
