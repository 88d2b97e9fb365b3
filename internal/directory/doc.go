// Package directory implements the core of the per-domain directory
// authentication pipeline.
//
// The pipeline has four stages, each owned by one component:
//
//   - Resolver normalizes sparse, possibly-scalar directory settings into
//     complete per-domain DomainConfig records with validated defaults.
//   - Connector walks the domain's ordered server list, binds with the
//     configured service DN (or anonymously) over the configured
//     encryption, and returns the first live connection. It also re-binds
//     an established connection with the end user's own credentials to
//     verify their password.
//   - Searcher executes scoped, filtered lookups against a connection,
//     both for the primary login lookup and for group-membership lookups.
//   - Orchestrator sequences the stages and turns connection, credential
//     and search outcomes into pass/fail/abstain decisions, applying the
//     per-domain local-fallback policy to every soft failure.
//
// All failures raised by this package are Error values carrying a kind
// tag plus a localization key and parameters, so callers can both
// classify the failure and render a user-facing message for it. Soft
// failures (connectivity, credentials, user outside the search base) are
// gated by the domain's UseLocal flag; configuration defects such as a
// missing search base are hard and fail regardless of the flag.
//
// A SearchCache memoizes group-membership lookups per query key with a
// domain-configured TTL, bounding the directory load generated by group
// reconciliation.
package directory
