package badger

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/storage"
)

// MappingRepository implements storage.MappingRepository for BadgerDB.
//
// Appends are serialized by a process-wide mutex so two confirmations for
// the same local code cannot race a read-modify-write and drop a target.
type MappingRepository struct {
	backend *Backend
	mu      sync.Mutex
}

var _ storage.MappingRepository = (*MappingRepository)(nil)

// NewMappingRepository creates a new MappingRepository.
func NewMappingRepository(backend *Backend) (*MappingRepository, error) {
	return &MappingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. MappingRepository has no resources to release.
func (r *MappingRepository) Close() error {
	return nil
}

// Append records one target for a local concept. A target the mapping
// already carries is not appended again.
func (r *MappingRepository) Append(ctx context.Context, system, code, display string, target core.MappingTarget) (*core.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result *core.Mapping
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMappingKey(system, code)

		mapping, err := readMapping(tx, key)
		if err != nil {
			return err
		}
		if mapping == nil {
			mapping = &core.Mapping{
				System:  system,
				Code:    code,
				Display: display,
			}
		}

		if !mapping.HasTarget(target.System, target.Code) {
			mapping.Targets = append(mapping.Targets, target)
		}
		mapping.UpdatedAt = time.Now().UTC()

		if err := core.ValidateMapping(mapping); err != nil {
			return err
		}

		if err := tx.Set(key, storage.MarshalMapping(mapping)); err != nil {
			return err
		}
		result = mapping
		return tx.Commit()
	}, true)

	return result, err
}

// Get retrieves the mapping for a local concept.
func (r *MappingRepository) Get(ctx context.Context, system, code string) (*core.Mapping, error) {
	var result *core.Mapping
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMapping(tx, makeMappingKey(system, code))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Translate returns the recorded targets for a local concept, filtered by
// target system URI. Unmapped codes yield an empty slice.
func (r *MappingRepository) Translate(ctx context.Context, system, code, targetSystem string) ([]core.MappingTarget, error) {
	mapping, err := r.Get(ctx, system, code)
	if err == storage.ErrNotFound {
		return []core.MappingTarget{}, nil
	}
	if err != nil {
		return nil, err
	}

	targets := make([]core.MappingTarget, 0, len(mapping.Targets))
	for _, target := range mapping.Targets {
		if targetSystem != "" && target.System != targetSystem {
			continue
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// readMapping reads a mapping from the transaction.
// Returns nil without error when the key does not exist.
func readMapping(tx *badger.Txn, key []byte) (*core.Mapping, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var mapping *core.Mapping
	err = item.Value(func(val []byte) error {
		var err error
		mapping, err = storage.UnmarshalMapping(val)
		return err
	})
	return mapping, err
}
