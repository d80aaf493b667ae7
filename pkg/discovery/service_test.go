package discovery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/libscout/libscout/pkg/errors"
	"github.com/libscout/libscout/pkg/github"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(github.Config{BaseURL: srv.URL})
	return NewService(client, Config{})
}

func searchRepo(name, fullName string, stars int) github.Repository {
	return github.Repository{
		ID:            int64(stars),
		Name:          name,
		FullName:      fullName,
		Description:   name + " library",
		HTMLURL:       "https://github.com/" + fullName,
		DefaultBranch: "main",
		Stars:         stars,
		UpdatedAt:     time.Now().Add(-24 * time.Hour),
		Owner:         github.RepoOwner{Login: "owner"},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestSearchPackagesSortByStars(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.RepoSearchResult{
			TotalCount: 3,
			Items: []github.Repository{
				searchRepo("json-lite", "a/json-lite", 5),
				searchRepo("json", "b/json", 50),
				searchRepo("json-extra", "c/json-extra", 10),
			},
		})
	})
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.CodeSearchResult{})
	})

	svc := newTestService(t, mux)
	results, err := svc.SearchPackages(context.Background(), "json",
		Filters{SortBy: SortByStars, SortOrder: OrderDesc}, 10)
	if err != nil {
		t.Fatalf("SearchPackages: %v", err)
	}

	var stars []int
	for _, r := range results {
		stars = append(stars, r.Stars)
	}
	want := []int{50, 10, 5}
	if len(stars) != len(want) {
		t.Fatalf("got %d results, want %d", len(stars), len(want))
	}
	for i := range want {
		if stars[i] != want[i] {
			t.Fatalf("stars order %v, want %v", stars, want)
		}
	}
}

func TestSearchPackagesDeduplicatesByRepository(t *testing.T) {
	repo := searchRepo("winclip", "deo/winclip", 30)

	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.RepoSearchResult{TotalCount: 1, Items: []github.Repository{repo}})
	})
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.CodeSearchResult{
			TotalCount: 1,
			Items: []github.CodeHit{{
				Name:       "WinClip.ahk",
				Path:       "lib/WinClip.ahk",
				Repository: repo,
			}},
		})
	})

	svc := newTestService(t, mux)
	results, err := svc.SearchPackages(context.Background(), "winclip", Filters{}, 10)
	if err != nil {
		t.Fatalf("SearchPackages: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 after dedupe", len(results))
	}
	// Repository hits precede code hits, so the repo-level hit wins.
	if results[0].RawURL != "" {
		t.Errorf("RawURL = %q, want repository hit to take precedence", results[0].RawURL)
	}
}

func TestSearchPackagesPartialDegradation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.RepoSearchResult{
			TotalCount: 1,
			Items:      []github.Repository{searchRepo("gdip", "tariq/gdip", 80)},
		})
	})
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
	})

	svc := newTestService(t, mux)
	results, err := svc.SearchPackages(context.Background(), "gdip", Filters{}, 10)
	if err != nil {
		t.Fatalf("SearchPackages: %v, want partial results when one call fails", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 from the surviving call", len(results))
	}
}

func TestSearchPackagesAllCallsFail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Validation Failed"}`, http.StatusUnprocessableEntity)
	})

	svc := newTestService(t, handler)
	_, err := svc.SearchPackages(context.Background(), "anything", Filters{}, 10)
	if err == nil {
		t.Fatal("expected an error when every call fails")
	}
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeNetwork)
	}
}

func TestSearchPackagesRateLimitClassification(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		http.Error(w, `{"message":"API rate limit exceeded"}`, http.StatusForbidden)
	})

	svc := newTestService(t, handler)
	_, err := svc.SearchPackages(context.Background(), "anything", Filters{}, 10)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, errors.ErrCodeRateLimited) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeRateLimited)
	}
}

func TestSearchPackagesResultCache(t *testing.T) {
	var calls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch {
		case r.URL.Path == "/search/repositories":
			writeJSON(t, w, github.RepoSearchResult{
				TotalCount: 1,
				Items:      []github.Repository{searchRepo("lib", "x/lib", 1)},
			})
		default:
			writeJSON(t, w, github.CodeSearchResult{})
		}
	})

	svc := newTestService(t, handler)
	ctx := context.Background()

	if _, err := svc.SearchPackages(ctx, "lib", Filters{}, 10); err != nil {
		t.Fatalf("first call: %v", err)
	}
	after := calls.Load()

	if _, err := svc.SearchPackages(ctx, "lib", Filters{}, 10); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls.Load() != after {
		t.Errorf("repeat query issued %d extra requests, want cache hit", calls.Load()-after)
	}

	// Different filters must not share the cached set.
	if _, err := svc.SearchPackages(ctx, "lib", Filters{MinStars: 1}, 10); err != nil {
		t.Fatalf("filtered call: %v", err)
	}
	if calls.Load() == after {
		t.Error("changed filters reused the cached result set")
	}
}

func TestSearchPackagesFilters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		small := searchRepo("http-small", "a/http-small", 2)
		small.Description = "tiny http client"
		big := searchRepo("http-big", "b/http-big", 500)
		big.Description = "full http client"
		other := searchRepo("regex-lib", "c/regex-lib", 900)
		other.Description = "regex text helpers"
		writeJSON(t, w, github.RepoSearchResult{
			TotalCount: 3,
			Items:      []github.Repository{small, big, other},
		})
	})
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.CodeSearchResult{})
	})

	svc := newTestService(t, mux)
	results, err := svc.SearchPackages(context.Background(), "http",
		Filters{Category: "Networking", MinStars: 10}, 10)
	if err != nil {
		t.Fatalf("SearchPackages: %v", err)
	}
	if len(results) != 1 || results[0].Name != "http-big" {
		t.Fatalf("results = %+v, want only http-big", results)
	}
}

func TestSearchPackagesEmptyQueryBrowses(t *testing.T) {
	var sawTopic atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Query().Get("q"), "topic:") {
			sawTopic.Store(true)
		}
		writeJSON(t, w, github.RepoSearchResult{
			TotalCount: 2,
			Items: []github.Repository{
				searchRepo("small", "x/small", 3),
				searchRepo("big", "y/big", 300),
			},
		})
	})

	svc := newTestService(t, mux)
	results, err := svc.SearchPackages(context.Background(), "", Filters{}, 2)
	if err != nil {
		t.Fatalf("SearchPackages: %v", err)
	}
	if !sawTopic.Load() {
		t.Error("empty query did not issue topic searches")
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Stars < results[1].Stars {
		t.Errorf("browse order %d, %d stars, want descending", results[0].Stars, results[1].Stars)
	}
}

func TestSearchPackagesRejectsInvalidQuery(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid query reached the network")
	}))

	_, err := svc.SearchPackages(context.Background(), "bad\x00query", Filters{}, 10)
	if !errors.Is(err, errors.ErrCodeInvalidQuery) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidQuery)
	}
}

func TestMetadataCacheNormalizesIdentity(t *testing.T) {
	svc := newTestService(t, http.NewServeMux())

	svc.CacheMetadata("TestLib.ahk", LibraryMetadata{Version: "2.0.0"}, []string{"github"})

	entry, ok := svc.CachedMetadata("testlib.ahk")
	if !ok {
		t.Fatal("lowercased lookup missed")
	}
	if entry.Metadata.Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", entry.Metadata.Version)
	}
	if _, ok := svc.CachedMetadata("Lib\\TestLib.AHK2"); !ok {
		t.Error("variant spelling missed the cached entry")
	}
}

func TestFetchMetadataHeaderPrecedence(t *testing.T) {
	header := "; @version 3.1.4\n; @author header-author\n"
	var contentCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/deo/winclip/contents/WinClip.ahk", func(w http.ResponseWriter, r *http.Request) {
		contentCalls.Add(1)
		writeJSON(t, w, github.FileContent{
			Name:     "WinClip.ahk",
			Path:     "WinClip.ahk",
			Encoding: "base64",
			Content:  base64.StdEncoding.EncodeToString([]byte(header)),
		})
	})
	mux.HandleFunc("/repos/deo/winclip", func(w http.ResponseWriter, r *http.Request) {
		repo := searchRepo("winclip", "deo/winclip", 10)
		repo.Description = "clipboard helpers"
		writeJSON(t, w, repo)
	})

	svc := newTestService(t, mux)
	meta, err := svc.FetchMetadata(context.Background(), "deo", "winclip", "WinClip.ahk")
	if err != nil {
		t.Fatalf("FetchMetadata: %v", err)
	}
	if meta.Version != "3.1.4" {
		t.Errorf("Version = %q, want header value", meta.Version)
	}
	if meta.Author != "header-author" {
		t.Errorf("Author = %q, want header value", meta.Author)
	}
	if meta.Description != "clipboard helpers" {
		t.Errorf("Description = %q, want repository to fill the gap", meta.Description)
	}

	// Second fetch is served from cache.
	if _, err := svc.FetchMetadata(context.Background(), "deo", "winclip", "winclip.ahk2"); err != nil {
		t.Fatalf("cached FetchMetadata: %v", err)
	}
	if got := contentCalls.Load(); got != 1 {
		t.Errorf("content endpoint called %d times, want 1", got)
	}
}

func TestDescribeUsesLatestRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/deo/winclip", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchRepo("winclip", "deo/winclip", 42))
	})
	mux.HandleFunc("/repos/deo/winclip/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.Release{TagName: "v1.2.3"})
	})

	svc := newTestService(t, mux)
	result, err := svc.Describe(context.Background(), "deo", "winclip")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if result.Version != "1.2.3" {
		t.Errorf("Version = %q, want release tag without prefix", result.Version)
	}
	if result.Stars != 42 {
		t.Errorf("Stars = %d, want 42", result.Stars)
	}
}

func TestDescribeWithoutRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/deo/winclip", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, searchRepo("winclip", "deo/winclip", 1))
	})
	mux.HandleFunc("/repos/deo/winclip/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	svc := newTestService(t, mux)
	result, err := svc.Describe(context.Background(), "deo", "winclip")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if result.Version != defaultVersion {
		t.Errorf("Version = %q, want default when no release exists", result.Version)
	}
}

func TestClearCacheAndStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "7")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(time.Now().Add(time.Hour).Unix()))
		writeJSON(t, w, github.RepoSearchResult{
			TotalCount: 1,
			Items:      []github.Repository{searchRepo("lib", "x/lib", 1)},
		})
	})
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, github.CodeSearchResult{})
	})

	svc := newTestService(t, mux)
	if _, err := svc.SearchPackages(context.Background(), "lib", Filters{}, 10); err != nil {
		t.Fatalf("SearchPackages: %v", err)
	}

	stats := svc.Stats()
	if stats.CacheSize == 0 {
		t.Error("CacheSize = 0 after a successful search")
	}
	if stats.RequestCount != 2 {
		t.Errorf("RequestCount = %d, want 2", stats.RequestCount)
	}
	if stats.RateLimitRemaining > 7 {
		t.Errorf("RateLimitRemaining = %d, want tracked from headers", stats.RateLimitRemaining)
	}

	svc.ClearCache()
	if svc.Stats().CacheSize != 0 {
		t.Errorf("CacheSize = %d after ClearCache, want 0", svc.Stats().CacheSize)
	}
}
