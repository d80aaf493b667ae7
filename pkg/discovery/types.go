package discovery

import "time"

// Sort fields accepted by [Filters.SortBy].
const (
	SortByStars   = "stars"
	SortByUpdated = "updated"
	SortByName    = "name"
)

// Sort orders accepted by [Filters.SortOrder].
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Filters narrows and orders a result set.
type Filters struct {
	// Category keeps only results whose inferred category equals this
	// value. Empty means no category filter.
	Category string `json:"category,omitempty"`

	// MinStars keeps only results with at least this many stars.
	MinStars int `json:"min_stars,omitempty"`

	// SortBy selects the sort key: stars, updated, or name.
	// Empty keeps relevance order.
	SortBy string `json:"sort_by,omitempty"`

	// SortOrder is asc or desc. Defaults to desc.
	SortOrder string `json:"sort_order,omitempty"`
}

// PackageResult is one discovered library, assembled from search hits and
// cached metadata. Version is defaulted rather than fetched: resolving
// the true version costs one extra API call per candidate, which would
// exhaust the search quota.
type PackageResult struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Description   string    `json:"description,omitempty"`
	Author        string    `json:"author,omitempty"`
	RepositoryURL string    `json:"repository_url"`
	Stars         int       `json:"stars"`
	UpdatedAt     time.Time `json:"updated_at"`
	Category      string    `json:"category"`
	DownloadURL   string    `json:"download_url,omitempty"`
	RawURL        string    `json:"raw_url,omitempty"`
	ReadmeURL     string    `json:"readme_url,omitempty"`
}

// LibraryMetadata holds the attribution fields gathered for a library.
// All fields are optional; sources are merged with first-wins precedence.
type LibraryMetadata struct {
	Description string `json:"description,omitempty"`
	File        string `json:"file,omitempty"`
	Author      string `json:"author,omitempty"`
	Link        string `json:"link,omitempty"`
	Date        string `json:"date,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Complete reports whether every attribution field is present.
func (m LibraryMetadata) Complete() bool {
	return m.Description != "" && m.File != "" && m.Author != "" &&
		m.Link != "" && m.Date != "" && m.Version != ""
}

// MetadataEntry is the cached value for one library identity: the
// assembled metadata and the sources it came from. Entries are replaced
// wholesale on rediscovery, never field-mutated.
type MetadataEntry struct {
	Metadata LibraryMetadata `json:"metadata"`
	Sources  []string        `json:"sources"`
}

// Stats is the orchestrator's health snapshot.
type Stats struct {
	CacheSize          int   `json:"cache_size"`
	RequestCount       int64 `json:"request_count"`
	FailureCount       int64 `json:"failure_count"`
	RateLimitRemaining int   `json:"rate_limit_remaining"`
}
