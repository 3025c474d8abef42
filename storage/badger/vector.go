package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/storage"
)

// VectorRepository implements storage.VectorRepository for BadgerDB.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
func NewVectorRepository(backend *Backend) (*VectorRepository, error) {
	return &VectorRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VectorRepository has no resources to release.
func (r *VectorRepository) Close() error {
	return nil
}

// PutVectors stores or replaces concept vectors.
func (r *VectorRepository) PutVectors(ctx context.Context, vectors ...*core.ConceptVector) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, vector := range vectors {
			key := makeVectorKey(vector.System, vector.Code)
			value := storage.MarshalConceptVector(vector)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetVector retrieves the vector for one concept.
func (r *VectorRepository) GetVector(ctx context.Context, system, code string) (*core.ConceptVector, error) {
	var result *core.ConceptVector
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(system, code))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalConceptVector(val)
			return err
		})
	}, false)
	return result, err
}

// Count returns the number of stored vectors.
func (r *VectorRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(conceptVectorPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans all stored vectors and returns the most similar ones.
// Vectors are expected to be unit-normalized, so the dot product is the
// cosine similarity.
func (r *VectorRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.VectorMatch, error) {
	var results []core.VectorMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(conceptVectorPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var cv *core.ConceptVector
			err := item.Value(func(val []byte) error {
				var err error
				cv, err = storage.UnmarshalConceptVector(val)
				return err
			})
			if err != nil {
				return err
			}
			if cv == nil || len(cv.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, cv.Vector)
			if similarity >= minSimilarity {
				results = append(results, core.VectorMatch{
					System: cv.System,
					Code:   cv.Code,
					Score:  similarity,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b core.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
