// Package discovery finds community script libraries on GitHub and
// assembles them into ranked, attributed results.
//
// # Overview
//
// A [Service] composes two query strategies per search: a repository
// search scoped to the configured language and a code search scoped to
// the configured extension. Hits are deduplicated by owning repository,
// scored by [Rank], converted into [PackageResult] values, then
// filtered and sorted per [Filters].
//
// # Caching
//
// Two in-memory caches back a Service: per-library metadata (24 hour
// TTL, keyed by [NormalizeIdentity]) and whole result sets (5 minute
// TTL, keyed by the query, filters, and limit). Neither survives a
// restart.
//
// # Degradation
//
// One failing sub-call degrades to partial results from the other; an
// error surfaces only when every call failed. Quota exhaustion anywhere
// in the failure set classifies the aggregate as rate limited so
// callers can suggest configuring an access token.
package discovery
