// Package match implements the candidate-producing strategies over the local
// vocabulary: a lexical matcher combining code-prefix and fuzzy text passes,
// and a semantic matcher running nearest-neighbor search over persisted
// concept embeddings. Both produce the unified core.MatchCandidate shape so
// the resolver can merge and rank them uniformly.
package match
