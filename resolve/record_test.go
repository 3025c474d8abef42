package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medterm/crosswalk/core"
)

func TestAssembleDualCoded(t *testing.T) {
	local := core.Coding{System: core.LocalSystemURI("Siddha"), Code: "AB", Display: "Jaundice"}
	remote := core.Coding{System: core.RemoteSystemURI, Code: "ME10.1", Display: "Unspecified jaundice"}

	record, err := AssembleDualCoded(local, remote, "Patient/7", "A. Patient")
	require.NoError(t, err)

	assert.NotZero(t, record.ID)
	assert.False(t, record.LastUpdated.IsZero())
	assert.Equal(t, "Patient/7", record.SubjectRef)
	assert.Equal(t, "A. Patient", record.SubjectDisplay)
	require.Len(t, record.Codings, 2)

	// Same coding pair yields the same id.
	again, err := AssembleDualCoded(local, remote, "Patient/7", "A. Patient")
	require.NoError(t, err)
	assert.Equal(t, record.ID, again.ID)
}

func TestAssembleDualCoded_RejectsSingleSided(t *testing.T) {
	local := core.Coding{System: core.LocalSystemURI("Siddha"), Code: "AB", Display: "Jaundice"}
	otherLocal := core.Coding{System: core.LocalSystemURI("Ayurveda"), Code: "KA1", Display: "Kamala"}
	remote := core.Coding{System: core.RemoteSystemURI, Code: "ME10.1", Display: "Unspecified jaundice"}
	otherRemote := core.Coding{System: core.RemoteSystemURI, Code: "SA01", Display: "Jaundice disorder"}

	_, err := AssembleDualCoded(local, otherLocal, "", "")
	assert.ErrorIs(t, err, core.ErrMissingDualCoding)

	_, err = AssembleDualCoded(remote, otherRemote, "", "")
	assert.ErrorIs(t, err, core.ErrMissingDualCoding)
}
