package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateQuery validates a search query for safety and correctness.
// It rejects queries that could break the upstream search syntax or that
// are obviously malformed.
//
// The validation rules are intentionally conservative:
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// An empty query is valid: it selects the curated topic browse path.
func ValidateQuery(query string) error {
	if len(query) > 256 {
		return New(ErrCodeInvalidQuery, "query too long (max 256 characters)")
	}
	for _, r := range query {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "query contains invalid control characters")
		}
	}
	if strings.Contains(query, "\x00") {
		return New(ErrCodeInvalidQuery, "query contains null bytes")
	}
	return nil
}

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return New(ErrCodeInvalidRepo, "owner is required")
	}
	if !validOwner.MatchString(owner) {
		return New(ErrCodeInvalidRepo, "invalid owner format: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return New(ErrCodeInvalidRepo, "repo is required")
	}
	if !validRepo.MatchString(repo) {
		return New(ErrCodeInvalidRepo, "invalid repo format: must be 1-100 alphanumeric characters, hyphens, underscores, or dots")
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}

// ParseRepoRef parses an "owner/repo" string and validates both parts.
// Returns owner, repo, and any validation error.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 {
		return "", "", New(ErrCodeInvalidRepo, "invalid repo format: use owner/repo")
	}
	owner, repo = parts[0], parts[1]
	if err := ValidateRepoRef(owner, repo); err != nil {
		return "", "", err
	}
	return owner, repo, nil
}
