// Package github provides a rate-limit-aware HTTP client for the GitHub API.
//
// # Overview
//
// This package issues the read-only API calls that library discovery is
// built on: repository search, code search, single-repository lookups,
// latest-release lookups, and file content fetches.
//
// # Usage
//
//	client := github.NewClient(github.Config{Token: token})
//
//	result, err := client.SearchRepositories(ctx, "json language:AutoHotkey", 30)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, repo := range result.Items {
//	    fmt.Println(repo.FullName, repo.Stars)
//	}
//
// # Rate Limiting
//
// The client tracks the remaining quota and reset instant from the
// X-RateLimit-* response headers. Before every request the budget is
// checked; when it is exhausted and the reset instant is still in the
// future, the call fails immediately with a rate-limit error carrying the
// wait time, and no network call is made.
//
// # Authentication
//
// A personal access token is optional but recommended. Without a token,
// the API allows 10 search requests/minute and 60 core requests/hour;
// with one, 30 search requests/minute and 5000 core requests/hour.
//
// # Retries
//
// Transient failures (502/503/504, socket timeouts, and 403 responses
// carrying a Retry-After hint) are retried up to three times with
// exponential backoff and jitter. Validation failures, parse failures,
// and connection errors surface on the first occurrence.
package github
