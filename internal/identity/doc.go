// Package identity persists user accounts, group memberships, domain
// linkage and per-login session attributes backing the authentication
// pipeline.
package identity
