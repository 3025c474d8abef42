package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/storage"
)

func TestMappingRepository_AppendAndGet(t *testing.T) {
	_, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	siddha := "Siddha"

	mapping, err := repo.Append(ctx, siddha, "AB", "Jaundice", core.MappingTarget{
		System:      core.RemoteSystemURI,
		Code:        "ME10.1",
		Display:     "Unspecified jaundice",
		Equivalence: core.EquivalenceEquivalent,
	})
	require.NoError(t, err)
	require.NotNil(t, mapping)
	assert.Equal(t, siddha, mapping.System)
	assert.Equal(t, "AB", mapping.Code)
	assert.Len(t, mapping.Targets, 1)

	got, err := repo.Get(ctx, siddha, "AB")
	require.NoError(t, err)
	assert.Equal(t, "Jaundice", got.Display)
	require.Len(t, got.Targets, 1)
	assert.Equal(t, "ME10.1", got.Targets[0].Code)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestMappingRepository_AppendAccumulatesTargets(t *testing.T) {
	_, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	siddha := "Siddha"

	_, err = repo.Append(ctx, siddha, "AB", "Jaundice", core.MappingTarget{
		System:      core.RemoteSystemURI,
		Code:        "ME10.1",
		Display:     "Unspecified jaundice",
		Equivalence: core.EquivalenceEquivalent,
	})
	require.NoError(t, err)

	mapping, err := repo.Append(ctx, siddha, "AB", "Jaundice", core.MappingTarget{
		System:      core.RemoteSystemURI,
		Code:        "SA01",
		Display:     "Jaundice disorder",
		Equivalence: core.EquivalenceEquivalent,
	})
	require.NoError(t, err)
	require.Len(t, mapping.Targets, 2)

	targets, err := repo.Translate(ctx, siddha, "AB", core.RemoteSystemURI)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	codes := []string{targets[0].Code, targets[1].Code}
	assert.Contains(t, codes, "ME10.1")
	assert.Contains(t, codes, "SA01")
}

func TestMappingRepository_AppendIsIdempotent(t *testing.T) {
	_, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	siddha := "Siddha"
	target := core.MappingTarget{
		System:      core.RemoteSystemURI,
		Code:        "ME10.1",
		Display:     "Unspecified jaundice",
		Equivalence: core.EquivalenceEquivalent,
	}

	for i := 0; i < 3; i++ {
		_, err := repo.Append(ctx, siddha, "AB", "Jaundice", target)
		require.NoError(t, err)
	}

	mapping, err := repo.Get(ctx, siddha, "AB")
	require.NoError(t, err)
	assert.Len(t, mapping.Targets, 1)
}

func TestMappingRepository_GetNotFound(t *testing.T) {
	_, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = repo.Get(context.Background(), "Siddha", "ZZ")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMappingRepository_TranslateUnmappedReturnsEmpty(t *testing.T) {
	_, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	targets, err := repo.Translate(context.Background(), "Siddha", "ZZ", core.RemoteSystemURI)
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestMappingRepository_TranslateFiltersBySystem(t *testing.T) {
	_, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	ayurveda := "Ayurveda"

	_, err = repo.Append(ctx, ayurveda, "AB", "Kamala", core.MappingTarget{
		System:      core.RemoteSystemURI,
		Code:        "ME10.1",
		Display:     "Unspecified jaundice",
		Equivalence: core.EquivalenceEquivalent,
	})
	require.NoError(t, err)

	targets, err := repo.Translate(ctx, ayurveda, "AB", "http://example.com/other-system")
	require.NoError(t, err)
	assert.Empty(t, targets)

	targets, err = repo.Translate(ctx, ayurveda, "AB", core.RemoteSystemURI)
	require.NoError(t, err)
	assert.Len(t, targets, 1)
}

func TestMappingRepository_MappingsAreScopedBySystem(t *testing.T) {
	_, repo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	siddha := "Siddha"
	ayurveda := "Ayurveda"

	_, err = repo.Append(ctx, siddha, "AB", "Jaundice", core.MappingTarget{
		System:      core.RemoteSystemURI,
		Code:        "ME10.1",
		Display:     "Unspecified jaundice",
		Equivalence: core.EquivalenceEquivalent,
	})
	require.NoError(t, err)

	_, err = repo.Get(ctx, ayurveda, "AB")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
