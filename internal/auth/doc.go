// Package auth provides the local database authentication fallback.
//
// Directory authentication is the primary path; when a domain is
// configured to allow local fallback and directory authentication
// abstains, LocalProvider authenticates the user against the local
// database with Argon2id password hashing.
package auth
