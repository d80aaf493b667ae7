// Package pkg provides the core libraries for libscout library discovery.
//
// # Overview
//
// Libscout finds community AutoHotkey script libraries on GitHub and
// assembles them into ranked, attributed results. The pkg directory is
// organized into these areas:
//
//  1. [github] - Rate-limited GitHub API client (search, repos, contents)
//  2. [discovery] - Search orchestration, ranking, metadata assembly
//  3. [cache] - Generic in-memory TTL store
//  4. [export] - JSON/CSV result export for scripting
//  5. [httputil], [errors], [observability] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through libscout:
//
//	Query
//	  ↓
//	discovery.Service ── result cache (5 min)
//	  ↓
//	github.Client ── rate-limit budget, retries
//	  ↓
//	repository search + code search
//	  ↓
//	dedupe → rank → filter → sort
//	  ↓
//	PackageResult list ── metadata cache (24 h)
//
// Each package has its own doc.go or package comment with details.
package pkg
