package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siddhaFixture = `{
	"resourceType": "CodeSystem",
	"id": "namc-siddha",
	"concept": [
		{
			"code": "AB",
			"display": "Jaundice",
			"definition": "Yellowing of skin and sclera",
			"designation": [{"language": "ta", "value": "Manjal Kamalai"}]
		},
		{
			"code": "AC",
			"display": "Anaemia",
			"designation": [{"language": "ta", "value": "Veluppu Noi"}]
		},
		{
			"code": "BA",
			"display": "Fever",
			"designation": [{"language": "ta", "value": "Suram"}]
		}
	]
}`

const ayurvedaFixture = `{
	"resourceType": "CodeSystem",
	"id": "namc-ayurveda",
	"concept": [
		{
			"code": "AB",
			"display": "Kamala",
			"designation": [{"language": "sa", "value": "Kamala"}]
		},
		{
			"code": "abc",
			"display": "Pandu",
			"designation": []
		}
	]
}`

func writeFixtures(t *testing.T) []Source {
	t.Helper()
	dir := t.TempDir()

	siddhaPath := filepath.Join(dir, "SiddhaJson.json")
	require.NoError(t, os.WriteFile(siddhaPath, []byte(siddhaFixture), 0644))

	ayurvedaPath := filepath.Join(dir, "AyurvedaJson.json")
	require.NoError(t, os.WriteFile(ayurvedaPath, []byte(ayurvedaFixture), 0644))

	return []Source{
		{System: "Siddha", Path: siddhaPath},
		{System: "Ayurveda", Path: ayurvedaPath},
	}
}

func TestLoad(t *testing.T) {
	repo, err := Load(writeFixtures(t))
	require.NoError(t, err)

	assert.Equal(t, 5, repo.Len())
	assert.Equal(t, []string{"Siddha", "Ayurveda"}, repo.Systems())
}

func TestLoad_SkipsMissingSource(t *testing.T) {
	sources := writeFixtures(t)
	sources = append(sources, Source{System: "Unani", Path: filepath.Join(t.TempDir(), "UnaniJson.json")})

	repo, err := Load(sources)
	require.NoError(t, err)

	assert.Equal(t, 5, repo.Len())
	assert.NotContains(t, repo.Systems(), "Unani")
}

func TestLoad_SkipsMalformedSource(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "UnaniJson.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{not json"), 0644))

	sources := writeFixtures(t)
	sources = append(sources, Source{System: "Unani", Path: badPath})

	repo, err := Load(sources)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.Len())
}

func TestLoad_AllSourcesBad(t *testing.T) {
	dir := t.TempDir()
	_, err := Load([]Source{{System: "Siddha", Path: filepath.Join(dir, "missing.json")}})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestRepository_SystemStamping(t *testing.T) {
	repo, err := Load(writeFixtures(t))
	require.NoError(t, err)

	for _, concept := range repo.All() {
		assert.NotEmpty(t, concept.System, "concept %s lacks a system tag", concept.Code)
	}
}

func TestRepository_Lookup(t *testing.T) {
	repo, err := Load(writeFixtures(t))
	require.NoError(t, err)

	concept, err := repo.Lookup("Siddha", "AB")
	require.NoError(t, err)
	assert.Equal(t, "Jaundice", concept.Display)

	// Same code, different system.
	concept, err = repo.Lookup("Ayurveda", "AB")
	require.NoError(t, err)
	assert.Equal(t, "Kamala", concept.Display)

	_, err = repo.Lookup("Siddha", "ZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_FindByCode(t *testing.T) {
	repo, err := Load(writeFixtures(t))
	require.NoError(t, err)

	t.Run("case-insensitive prefix", func(t *testing.T) {
		matches := repo.FindByCode("Ayurveda", "AB")
		require.Len(t, matches, 2)
		assert.Equal(t, "AB", matches[0].Code)
		assert.Equal(t, "abc", matches[1].Code)
	})

	t.Run("system scoping", func(t *testing.T) {
		matches := repo.FindByCode("Siddha", "A")
		require.Len(t, matches, 2)
		for _, m := range matches {
			assert.Equal(t, "Siddha", m.System)
		}
	})

	t.Run("all systems", func(t *testing.T) {
		matches := repo.FindByCode("", "AB")
		assert.Len(t, matches, 3)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, repo.FindByCode("Siddha", "ZZ"))
	})
}
