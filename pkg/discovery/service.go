package discovery

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/libscout/libscout/pkg/cache"
	"github.com/libscout/libscout/pkg/errors"
	"github.com/libscout/libscout/pkg/github"
	"github.com/libscout/libscout/pkg/observability"
)

const (
	// MetadataTTL bounds how long assembled library metadata stays fresh.
	MetadataTTL = 24 * time.Hour

	// ResultTTL bounds how long a full discovery result set is reused for
	// an identical (query, filters) pair.
	ResultTTL = 5 * time.Minute

	// DefaultMaxResults applies when the caller passes maxResults <= 0.
	DefaultMaxResults = 30

	// MaxResults caps any request; the search API rejects larger pages.
	MaxResults = 100

	defaultLanguage  = "AutoHotkey"
	defaultExtension = "ahk"
	defaultVersion   = "1.0.0"
)

// browseTopics drives discovery when no query is given: one repository
// search per topic, accumulated until maxResults is reached.
var browseTopics = []string{
	"autohotkey",
	"ahk",
	"autohotkey-v2",
	"ahk-script",
	"autohotkey-library",
}

// Config holds optional settings for a Service.
type Config struct {
	// Logger receives debug and degradation warnings. Defaults to silent.
	Logger *log.Logger

	// Language restricts repository searches. Defaults to "AutoHotkey".
	Language string

	// Extension restricts code searches. Defaults to "ahk".
	Extension string

	// MetadataTTL overrides the metadata cache lifetime. Zero keeps the
	// default of MetadataTTL.
	MetadataTTL time.Duration

	// ResultTTL overrides the result cache lifetime. Zero keeps the
	// default of ResultTTL.
	ResultTTL time.Duration
}

// Service composes the query strategies: it issues searches through the
// rate-limited client, deduplicates by repository identity, ranks,
// filters, and caches outcomes. Construct one per process with
// [NewService] and share it; all state is mutex-guarded.
type Service struct {
	client    *github.Client
	logger    *log.Logger
	language  string
	extension string

	metadata *cache.Store[MetadataEntry]
	results  *cache.Store[[]PackageResult]
}

// NewService creates a Service around client, applying defaults for
// unset config fields.
func NewService(client *github.Client, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	extension := cfg.Extension
	if extension == "" {
		extension = defaultExtension
	}
	metadataTTL := cfg.MetadataTTL
	if metadataTTL == 0 {
		metadataTTL = MetadataTTL
	}
	resultTTL := cfg.ResultTTL
	if resultTTL == 0 {
		resultTTL = ResultTTL
	}

	return &Service{
		client:    client,
		logger:    logger,
		language:  language,
		extension: extension,
		metadata:  cache.New[MetadataEntry](metadataTTL),
		results:   cache.New[[]PackageResult](resultTTL),
	}
}

// SearchPackages discovers libraries for query. An empty query browses
// the curated topic list instead. Results are deduplicated by owning
// repository, filtered, sorted, and truncated to maxResults.
//
// Sub-call failures degrade to partial results; an error is returned
// only when every constituent call failed, classified as RATE_LIMITED
// when quota exhaustion caused it so callers can suggest configuring an
// access token.
func (s *Service) SearchPackages(ctx context.Context, query string, f Filters, maxResults int) ([]PackageResult, error) {
	if err := errors.ValidateQuery(query); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxResults {
		maxResults = MaxResults
	}

	key := cache.Key("search", query, f, maxResults)
	if cached, ok := s.results.Get(key); ok {
		observability.Cache().OnCacheHit(ctx, "search")
		return cached, nil
	}
	observability.Cache().OnCacheMiss(ctx, "search")

	callID := uuid.NewString()[:8]
	s.logger.Debug("discovery call", "id", callID, "query", query, "max", maxResults)
	observability.Discovery().OnSearchStart(ctx, query)
	start := time.Now()

	var (
		results []PackageResult
		err     error
	)
	if query == "" {
		results, err = s.browse(ctx, maxResults)
	} else {
		results, err = s.search(ctx, query, f, maxResults)
	}

	observability.Discovery().OnSearchComplete(ctx, query, len(results), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.results.Set(key, results)
	observability.Cache().OnCacheSet(ctx, "search")
	s.logger.Debug("discovery done", "id", callID, "results", len(results), "elapsed", time.Since(start))
	return results, nil
}

// search runs the two query strategies for a non-empty query: a broad
// repository search and a narrow code search. Repository hits are listed
// first so they win dedupe ties regardless of scores.
func (s *Service) search(ctx context.Context, query string, f Filters, maxResults int) ([]PackageResult, error) {
	var hits []Hit
	var failures []error

	repoQuery := fmt.Sprintf("%s language:%s", query, s.language)
	if repoRes, err := s.client.SearchRepositories(ctx, repoQuery, MaxResults); err != nil {
		s.logger.Warn("repository search failed", "err", err)
		failures = append(failures, err)
	} else {
		for _, repo := range repoRes.Items {
			hits = append(hits, Hit{
				Name:  repo.Name,
				URL:   repo.HTMLURL,
				Score: repo.Score,
				Repo:  repo,
			})
		}
	}

	codeQuery := fmt.Sprintf("%s extension:%s", query, s.extension)
	if codeRes, err := s.client.SearchCode(ctx, codeQuery, MaxResults); err != nil {
		s.logger.Warn("code search failed", "err", err)
		failures = append(failures, err)
	} else {
		for _, item := range codeRes.Items {
			hits = append(hits, Hit{
				Name:  item.Name,
				Path:  item.Path,
				URL:   item.HTMLURL,
				Score: item.Score,
				Repo:  item.Repository,
			})
		}
	}

	if len(failures) == 2 {
		return nil, aggregate(failures)
	}

	hits = dedupe(hits)
	hits = Rank(query, hits)

	results := s.convertHits(ctx, hits)
	results = applyFilters(results, f)
	sortResults(results, f)
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// browse iterates the fixed topic list, accumulating popular libraries
// until maxResults is reached. The final order is stars descending.
func (s *Service) browse(ctx context.Context, maxResults int) ([]PackageResult, error) {
	seen := make(map[string]bool)
	var results []PackageResult
	var failures []error
	attempts := 0

	for _, topic := range browseTopics {
		if len(results) >= maxResults {
			break
		}
		attempts++

		topicQuery := fmt.Sprintf("topic:%s language:%s", topic, s.language)
		repoRes, err := s.client.SearchRepositories(ctx, topicQuery, maxResults)
		if err != nil {
			s.logger.Warn("topic search failed", "topic", topic, "err", err)
			failures = append(failures, err)
			continue
		}

		for _, repo := range repoRes.Items {
			id := strings.ToLower(repo.FullName)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			result, err := s.convert(ctx, Hit{Name: repo.Name, URL: repo.HTMLURL, Repo: repo})
			if err != nil {
				continue
			}
			results = append(results, result)
			if len(results) >= maxResults {
				break
			}
		}
	}

	if attempts > 0 && len(failures) == attempts {
		return nil, aggregate(failures)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Stars > results[j].Stars
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// dedupe collapses hits sharing an owning repository: the first
// occurrence wins, so ordering encodes precedence.
func dedupe(hits []Hit) []Hit {
	seen := make(map[string]bool, len(hits))
	out := hits[:0:0]
	for _, h := range hits {
		id := strings.ToLower(h.Repo.FullName)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, h)
	}
	return out
}

// convertHits converts surviving hits, skipping any that fail rather
// than aborting the whole call.
func (s *Service) convertHits(ctx context.Context, hits []Hit) []PackageResult {
	results := make([]PackageResult, 0, len(hits))
	for _, h := range hits {
		result, err := s.convert(ctx, h)
		if err != nil {
			s.logger.Debug("skipping hit", "name", h.Name, "err", err)
			continue
		}
		results = append(results, result)
	}
	return results
}

// convert assembles one PackageResult from a hit, consulting and
// populating the metadata cache.
func (s *Service) convert(ctx context.Context, h Hit) (PackageResult, error) {
	name := h.Name
	if name == "" {
		name = h.Repo.Name
	}
	if name == "" || h.Repo.FullName == "" {
		return PackageResult{}, errors.New(errors.ErrCodeInvalidInput, "hit missing repository identity")
	}

	id := NormalizeIdentity(name)
	entry, ok := s.metadata.Get(id)
	if ok {
		observability.Cache().OnCacheHit(ctx, "metadata")
	} else {
		observability.Cache().OnCacheMiss(ctx, "metadata")
		source := "github-repos"
		if h.Path != "" {
			source = "github-code"
		}
		entry = MetadataEntry{
			Metadata: s.metadataFromRepo(name, h.Repo),
			Sources:  []string{source},
		}
		s.metadata.Set(id, entry)
		observability.Cache().OnCacheSet(ctx, "metadata")
	}

	meta := entry.Metadata
	result := PackageResult{
		Name:          name,
		Version:       meta.Version,
		Description:   firstNonEmpty(meta.Description, h.Repo.Description),
		Author:        firstNonEmpty(meta.Author, h.Repo.Owner.Login),
		RepositoryURL: h.Repo.HTMLURL,
		Stars:         h.Repo.Stars,
		UpdatedAt:     h.Repo.UpdatedAt,
		Category:      InferCategory(h.Repo.Description),
	}
	if result.Version == "" {
		result.Version = defaultVersion
	}
	if branch := h.Repo.DefaultBranch; branch != "" {
		result.DownloadURL = fmt.Sprintf("%s/archive/refs/heads/%s.zip", h.Repo.HTMLURL, branch)
		if h.Path != "" {
			result.RawURL = fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", h.Repo.FullName, branch, h.Path)
		}
	}
	if h.Repo.HTMLURL != "" {
		result.ReadmeURL = h.Repo.HTMLURL + "#readme"
	}
	return result, nil
}

func (s *Service) metadataFromRepo(name string, repo github.Repository) LibraryMetadata {
	meta := LibraryMetadata{
		Description: repo.Description,
		File:        NormalizeIdentity(name),
		Author:      repo.Owner.Login,
		Link:        repo.HTMLURL,
	}
	if !repo.UpdatedAt.IsZero() {
		meta.Date = repo.UpdatedAt.Format("2006-01-02")
	}
	return meta
}

// FetchMetadata assembles full attribution for one library file,
// preferring its header comment block over repository fields. The result
// is cached for MetadataTTL.
func (s *Service) FetchMetadata(ctx context.Context, owner, repo, path string) (LibraryMetadata, error) {
	id := NormalizeIdentity(path)
	if entry, ok := s.metadata.Get(id); ok {
		observability.Cache().OnCacheHit(ctx, "metadata")
		return entry.Metadata, nil
	}
	observability.Cache().OnCacheMiss(ctx, "metadata")

	file, err := s.client.FetchFile(ctx, owner, repo, path)
	if err != nil {
		return LibraryMetadata{}, err
	}
	header := ParseHeader(file.Content)
	sources := []string{"header"}

	var repoMeta LibraryMetadata
	if info, err := s.client.GetRepository(ctx, owner, repo); err == nil {
		repoMeta = s.metadataFromRepo(file.Name, *info)
		sources = append(sources, "github-repos")
	} else {
		s.logger.Debug("repository lookup failed", "owner", owner, "repo", repo, "err", err)
	}

	merged := Merge(header, repoMeta)
	if merged.File == "" {
		merged.File = id
	}
	s.metadata.Set(id, MetadataEntry{Metadata: merged, Sources: sources})
	observability.Cache().OnCacheSet(ctx, "metadata")
	return merged, nil
}

// Describe fetches one repository directly, with its latest release when
// one exists. It bypasses search entirely.
func (s *Service) Describe(ctx context.Context, owner, repo string) (*PackageResult, error) {
	info, err := s.client.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	result, err := s.convert(ctx, Hit{Name: info.Name, URL: info.HTMLURL, Repo: *info})
	if err != nil {
		return nil, err
	}
	if rel, err := s.client.LatestRelease(ctx, owner, repo); err == nil && rel.TagName != "" {
		result.Version = strings.TrimPrefix(rel.TagName, "v")
	}
	return &result, nil
}

// CacheMetadata stores assembled metadata for a library identity,
// replacing any existing entry wholesale.
func (s *Service) CacheMetadata(id string, meta LibraryMetadata, sources []string) {
	s.metadata.Set(NormalizeIdentity(id), MetadataEntry{Metadata: meta, Sources: sources})
}

// CachedMetadata looks up previously assembled metadata by any spelling
// of the library identity.
func (s *Service) CachedMetadata(id string) (MetadataEntry, bool) {
	return s.metadata.Get(NormalizeIdentity(id))
}

// Categories lists the known library categories.
func (s *Service) Categories() []string { return Categories() }

// ClearCache empties both the metadata cache and the result cache.
func (s *Service) ClearCache() {
	s.metadata.Clear()
	s.results.Clear()
}

// ClearExpired sweeps expired entries from both caches and reports how
// many were removed.
func (s *Service) ClearExpired() int {
	return s.metadata.ClearExpired() + s.results.ClearExpired()
}

// Stats reports cache size together with the client's health counters.
func (s *Service) Stats() Stats {
	clientStats := s.client.Stats()
	return Stats{
		CacheSize:          s.metadata.Len() + s.results.Len(),
		RequestCount:       clientStats.RequestCount,
		FailureCount:       clientStats.FailureCount,
		RateLimitRemaining: clientStats.RateLimitRemaining,
	}
}

// aggregate folds sub-call failures into the single error surfaced when
// no call produced anything.
func aggregate(failures []error) error {
	joined := stderrors.Join(failures...)
	for _, err := range failures {
		if errors.IsRateLimited(err) {
			return errors.Wrap(errors.ErrCodeRateLimited, joined,
				"search quota exhausted; configure an access token to raise the limit")
		}
	}
	return errors.Wrap(errors.ErrCodeNetwork, joined, "all search calls failed")
}

func applyFilters(results []PackageResult, f Filters) []PackageResult {
	if f.Category == "" && f.MinStars <= 0 {
		return results
	}
	out := results[:0:0]
	for _, r := range results {
		if f.Category != "" && !strings.EqualFold(r.Category, f.Category) {
			continue
		}
		if r.Stars < f.MinStars {
			continue
		}
		out = append(out, r)
	}
	return out
}

// sortResults orders results in place by the requested key. An empty
// SortBy keeps relevance order; SortOrder defaults to descending.
func sortResults(results []PackageResult, f Filters) {
	if f.SortBy == "" {
		return
	}
	asc := f.SortOrder == OrderAsc

	var less func(a, b PackageResult) bool
	switch f.SortBy {
	case SortByStars:
		less = func(a, b PackageResult) bool { return a.Stars < b.Stars }
	case SortByUpdated:
		less = func(a, b PackageResult) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortByName:
		less = func(a, b PackageResult) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	default:
		return
	}

	sort.SliceStable(results, func(i, j int) bool {
		if asc {
			return less(results[i], results[j])
		}
		return less(results[j], results[i])
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
