package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medterm/crosswalk/ai"
	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/storage"
	"github.com/medterm/crosswalk/vocabulary"
)

// DefaultMinSimilarity is the cosine similarity floor below which semantic
// hits are discarded.
const DefaultMinSimilarity = 0.35

// SemanticMatcher runs nearest-neighbor search over persisted concept
// embeddings. The index is built offline by the indexer; query serving
// treats it as read-only.
type SemanticMatcher struct {
	embedder      ai.Embedder
	vectors       storage.VectorRepository
	repo          *vocabulary.Repository
	minSimilarity float32
	logger        *slog.Logger
}

// SemanticOption configures a SemanticMatcher.
type SemanticOption func(*SemanticMatcher) error

// WithMinSimilarity overrides the similarity floor.
// Default is DefaultMinSimilarity.
func WithMinSimilarity(min float32) SemanticOption {
	return func(m *SemanticMatcher) error {
		m.minSimilarity = min
		return nil
	}
}

// WithSemanticLogger sets a custom logger.
// Default is slog.Default().
func WithSemanticLogger(logger *slog.Logger) SemanticOption {
	return func(m *SemanticMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewSemanticMatcher creates a matcher over the given embedding index and
// repository.
func NewSemanticMatcher(embedder ai.Embedder, vectors storage.VectorRepository, repo *vocabulary.Repository, opts ...SemanticOption) (*SemanticMatcher, error) {
	m := &SemanticMatcher{
		embedder:      embedder,
		vectors:       vectors,
		repo:          repo,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// QuerySimilar embeds the query and returns the k nearest concepts as
// candidates. Returns ErrIndexUnavailable when no vectors have been
// indexed, so callers can tell "feature disabled" from "no matches".
func (m *SemanticMatcher) QuerySimilar(ctx context.Context, query string, k int) ([]core.MatchCandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultLimit
	}

	count, err := m.vectors.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting indexed vectors: %w", err)
	}
	if count == 0 {
		return nil, ErrIndexUnavailable
	}

	vector, err := m.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	vector = core.NormalizeVector(vector)

	matches, err := m.vectors.FindSimilar(ctx, vector, m.minSimilarity, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	var candidates []core.MatchCandidate
	for _, hit := range matches {
		concept, err := m.repo.Lookup(hit.System, hit.Code)
		if err != nil {
			m.logger.Warn("indexed concept missing from vocabulary", "system", hit.System, "code", hit.Code)
			continue
		}
		candidates = append(candidates, candidateFrom(concept, hit.Score, core.MatchSemantic))
	}
	return candidates, nil
}
