package discovery

import (
	"sort"
	"strings"
	"time"

	"github.com/libscout/libscout/pkg/github"
)

// Hit is one raw search result, unified across the repository-search and
// code-search endpoints. Repository-level hits have an empty Path.
type Hit struct {
	Name  string
	Path  string
	URL   string
	Score float64
	Repo  github.Repository
}

// target precomputes the lowered forms of the queried filename so each
// rule stays a cheap pure predicate.
type target struct {
	filename string // full filename, lowercased
	base     string // filename without extension, lowercased
}

func newTarget(filename string) target {
	return target{
		filename: strings.ToLower(strings.TrimSpace(filename)),
		base:     baseName(filename),
	}
}

// scoreRule is one independent contribution to a hit's total score.
// Each rule is a pure function of (target, hit): no randomness, no
// external mutable state.
type scoreRule struct {
	name  string
	score func(t target, h Hit, now time.Time) float64
}

const (
	weightExactName    = 100
	weightNameContains = 50
	weightRepoContains = 25
	starCap            = 50
	weightRecent       = 10
	recencyWindow      = 365 * 24 * time.Hour
)

var scoreRules = []scoreRule{
	{
		name: "api relevance",
		score: func(_ target, h Hit, _ time.Time) float64 {
			return h.Score
		},
	},
	{
		name: "exact filename match",
		score: func(t target, h Hit, _ time.Time) float64 {
			if t.filename != "" && strings.EqualFold(h.Name, t.filename) {
				return weightExactName
			}
			return 0
		},
	},
	{
		name: "name contains base",
		score: func(t target, h Hit, _ time.Time) float64 {
			if t.base != "" && strings.Contains(strings.ToLower(h.Name), t.base) {
				return weightNameContains
			}
			return 0
		},
	},
	{
		name: "repo name contains base",
		score: func(t target, h Hit, _ time.Time) float64 {
			if t.base != "" && strings.Contains(strings.ToLower(h.Repo.FullName), t.base) {
				return weightRepoContains
			}
			return 0
		},
	},
	{
		name: "stars (capped)",
		score: func(_ target, h Hit, _ time.Time) float64 {
			return float64(min(h.Repo.Stars, starCap))
		},
	},
	{
		name: "recently updated",
		score: func(_ target, h Hit, now time.Time) float64 {
			if !h.Repo.UpdatedAt.IsZero() && now.Sub(h.Repo.UpdatedAt) < recencyWindow {
				return weightRecent
			}
			return 0
		},
	},
}

// score folds the rule list over one hit.
func score(t target, h Hit, now time.Time) float64 {
	total := 0.0
	for _, rule := range scoreRules {
		total += rule.score(t, h, now)
	}
	return total
}

// Rank orders hits by descending score for the given target filename.
// The sort is stable: ties keep their original relative order, with no
// secondary key. The input slice is not modified.
func Rank(targetFilename string, hits []Hit) []Hit {
	return rankAt(targetFilename, hits, time.Now())
}

func rankAt(targetFilename string, hits []Hit, now time.Time) []Hit {
	t := newTarget(targetFilename)

	type scored struct {
		hit   Hit
		total float64
	}
	all := make([]scored, len(hits))
	for i, h := range hits {
		all[i] = scored{hit: h, total: score(t, h, now)}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].total > all[j].total
	})

	out := make([]Hit, len(all))
	for i, s := range all {
		out[i] = s.hit
	}
	return out
}
