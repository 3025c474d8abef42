package resolve

import (
	"time"

	"github.com/medterm/crosswalk/core"
)

// AssembleDualCoded builds the immutable condition record from one local and
// one remote coding. The dual-coding rule is enforced before assembly: a
// record missing either side is rejected, never partially written. The
// record id is derived from the coding content, so re-resolving the same
// pair yields the same id.
func AssembleDualCoded(local, remote core.Coding, subjectRef, subjectDisplay string) (*core.ConditionRecord, error) {
	record := &core.ConditionRecord{
		LastUpdated:    time.Now().UTC(),
		Codings:        []core.Coding{local, remote},
		SubjectRef:     subjectRef,
		SubjectDisplay: subjectDisplay,
	}

	if err := core.ValidateDualCoded(record); err != nil {
		return nil, err
	}

	record.ID = core.IDFromContent(local.System + "|" + local.Code + "|" + remote.System + "|" + remote.Code)
	return record, nil
}
