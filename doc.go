// Package main provides the entry point for the go-ldapauth daemon.
// It authenticates users against per-domain LDAP/Active Directory realms,
// optionally falls back to a local password database, and synchronizes
// directory group membership into locally managed groups. The daemon
// exposes a small JSON API via the Fiber framework and uses gorm for
// persistence of users, group membership and per-user domain records.
package main
