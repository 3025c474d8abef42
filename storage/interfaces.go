package storage

import (
	"context"

	"github.com/medterm/crosswalk/core"
)

// VectorRepository persists concept embeddings and serves nearest-neighbor
// queries over them. Implementations must be thread-safe.
type VectorRepository interface {
	// PutVectors stores or replaces concept vectors.
	PutVectors(ctx context.Context, vectors ...*core.ConceptVector) error

	// GetVector retrieves the vector for one concept.
	// Returns ErrNotFound if no vector is stored for the concept.
	GetVector(ctx context.Context, system, code string) (*core.ConceptVector, error)

	// Count returns the number of stored vectors.
	Count(ctx context.Context) (int, error)

	// FindSimilar returns the concepts whose vectors are most similar to the
	// query vector, ordered by similarity descending, up to limit results.
	// Vectors are expected to be unit-normalized; similarity is the dot product.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.VectorMatch, error)

	// Close closes the repository and releases resources.
	Close() error
}

// MappingRepository is the append-only store of confirmed mappings, scoped
// by local system and code.
type MappingRepository interface {
	// Append records one target for a local concept. Appending a target the
	// mapping already carries is a no-op, so retries and duplicate
	// confirmations cannot create duplicate entries.
	Append(ctx context.Context, system, code, display string, target core.MappingTarget) (*core.Mapping, error)

	// Get retrieves the mapping for a local concept.
	// Returns ErrNotFound when the concept has never been mapped.
	Get(ctx context.Context, system, code string) (*core.Mapping, error)

	// Translate returns the target codings recorded for a local concept,
	// filtered by target system URI when targetSystem is non-empty. An
	// unmapped code yields an empty slice, not an error.
	Translate(ctx context.Context, system, code, targetSystem string) ([]core.MappingTarget, error)

	// Close closes the repository and releases resources.
	Close() error
}
