package github

import "time"

// RepoOwner identifies the account owning a repository.
type RepoOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repository holds the repository fields consumed from search and repo
// endpoints. Unknown fields in the response are ignored at the decode
// boundary rather than accessed defensively downstream.
type Repository struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	HTMLURL       string    `json:"html_url"`
	DefaultBranch string    `json:"default_branch"`
	Language      string    `json:"language"`
	Stars         int       `json:"stargazers_count"`
	UpdatedAt     time.Time `json:"updated_at"`
	Topics        []string  `json:"topics"`
	Owner         RepoOwner `json:"owner"`
	Score         float64   `json:"score"`
}

// RepoSearchResult is the body of a /search/repositories response.
type RepoSearchResult struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}

// CodeHit is a single item in a /search/code response: a file match with
// its owning repository.
type CodeHit struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	HTMLURL    string     `json:"html_url"`
	Score      float64    `json:"score"`
	Repository Repository `json:"repository"`
}

// CodeSearchResult is the body of a /search/code response.
type CodeSearchResult struct {
	TotalCount int       `json:"total_count"`
	Items      []CodeHit `json:"items"`
}

// Release is the body of a /repos/{owner}/{repo}/releases/latest response.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// FileContent is the body of a /repos/{owner}/{repo}/contents/{path}
// response for a file. Content is base64 when Encoding says so, plain
// text otherwise.
type FileContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Stats is a coarse health snapshot of a client.
type Stats struct {
	RequestCount       int64     `json:"request_count"`
	FailureCount       int64     `json:"failure_count"`
	RateLimitRemaining int       `json:"rate_limit_remaining"`
	RateLimitResetAt   time.Time `json:"rate_limit_reset_at,omitempty"`
}
