package match

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/vocabulary"
)

const (
	// PrefixScore is the fixed score for code-prefix hits. It sits above the
	// maximum fuzzy ratio (100) so prefix matches always outrank fuzzy ones.
	PrefixScore = 101

	// DefaultLimit caps a single ranked result list.
	DefaultLimit = 10
)

// LexicalMatcher finds concepts by code prefix and by fuzzy text similarity.
type LexicalMatcher struct {
	repo   *vocabulary.Repository
	limit  int
	logger *slog.Logger
}

// LexicalOption configures a LexicalMatcher.
type LexicalOption func(*LexicalMatcher) error

// WithLexicalLimit overrides the result cap.
// Default is DefaultLimit.
func WithLexicalLimit(limit int) LexicalOption {
	return func(m *LexicalMatcher) error {
		if limit > 0 {
			m.limit = limit
		}
		return nil
	}
}

// WithLexicalLogger sets a custom logger.
// Default is slog.Default().
func WithLexicalLogger(logger *slog.Logger) LexicalOption {
	return func(m *LexicalMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewLexicalMatcher creates a matcher over the given repository.
func NewLexicalMatcher(repo *vocabulary.Repository, opts ...LexicalOption) (*LexicalMatcher, error) {
	m := &LexicalMatcher{
		repo:   repo,
		limit:  DefaultLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Match runs the prefix pass then the fuzzy pass and returns the merged
// ranked list, capped at the configured limit. An empty query yields an
// empty list.
func (m *LexicalMatcher) Match(query string) []core.MatchCandidate {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []core.MatchCandidate

	for _, concept := range m.repo.FindByCode("", query) {
		if seen[concept.Code] {
			continue
		}
		seen[concept.Code] = true
		candidates = append(candidates, candidateFrom(concept, PrefixScore, core.MatchPrefix))
	}

	candidates = append(candidates, m.fuzzyPass(query, seen)...)

	slices.SortStableFunc(candidates, func(a, b core.MatchCandidate) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(candidates) > m.limit {
		candidates = candidates[:m.limit]
	}
	return candidates
}

// fuzzyPass ranks every concept's "{system}: {display}" composite against the
// query and returns up to limit candidates whose codes are not in seen.
func (m *LexicalMatcher) fuzzyPass(query string, seen map[string]bool) []core.MatchCandidate {
	type scored struct {
		concept *core.Concept
		score   float32
	}

	concepts := m.repo.All()
	ranked := make([]scored, 0, len(concepts))
	for _, concept := range concepts {
		composite := concept.System + ": " + concept.Display
		ranked = append(ranked, scored{
			concept: concept,
			score:   fuzzyRatio(query, composite),
		})
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})

	var candidates []core.MatchCandidate
	for _, entry := range ranked {
		if len(candidates) >= m.limit {
			break
		}
		if seen[entry.concept.Code] {
			continue
		}
		seen[entry.concept.Code] = true
		candidates = append(candidates, candidateFrom(entry.concept, entry.score, core.MatchFuzzy))
	}
	return candidates
}

// fuzzyRatio computes a case-insensitive similarity ratio on a 0 to 100
// scale, derived from the Wagner-Fischer edit distance with substitution
// weighted double.
func fuzzyRatio(a, b string) float32 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	lenSum := len(a) + len(b)
	if lenSum == 0 {
		return 100
	}
	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return float32(100*(lenSum-distance)) / float32(lenSum)
}

func candidateFrom(concept *core.Concept, score float32, source core.MatchSource) core.MatchCandidate {
	return core.MatchCandidate{
		Code:       concept.Code,
		System:     concept.System,
		Display:    concept.Display,
		Vernacular: concept.Vernacular(),
		Score:      score,
		Source:     source,
		Label:      concept.Label(),
	}
}
