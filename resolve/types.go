package resolve

import (
	"context"

	"github.com/medterm/crosswalk/core"
)

// Direction selects which side of the crosswalk the query names.
type Direction int

const (
	// LocalToRemote starts from a local code or term and resolves to the
	// remote classification.
	LocalToRemote Direction = iota + 1
	// RemoteToLocal starts from a remote or English term and resolves to the
	// local vocabulary.
	RemoteToLocal
)

func (d Direction) String() string {
	switch d {
	case LocalToRemote:
		return "local-to-remote"
	case RemoteToLocal:
		return "remote-to-local"
	default:
		return "unknown"
	}
}

// State is the position of a session in the selection workflow.
type State int

const (
	// StateAwaitingFirstSelection means first-step candidates are ready.
	StateAwaitingFirstSelection State = iota + 1
	// StateAwaitingSecondSelection means second-step candidates are ready.
	StateAwaitingSecondSelection
	// StateDone means the session finished, with or without a resolution.
	StateDone
	// StateCancelled means the caller aborted the resolution.
	StateCancelled
)

// Status is the terminal result of a session.
type Status int

const (
	// StatusResolved means both selections were confirmed and a mapping was
	// appended.
	StatusResolved Status = iota + 1
	// StatusNoMatches means a step produced zero candidates. Not an error.
	StatusNoMatches
	// StatusCancelled means the caller aborted. Not an error.
	StatusCancelled
)

// Outcome is the terminal artifact of a session. Mapping and Record are set
// only when Status is StatusResolved; a cancelled or unmatched resolution
// never carries a partially-filled record.
type Outcome struct {
	Status  Status
	Mapping *core.Mapping
	Record  *core.ConditionRecord
}

// LexicalMatcher produces local candidates by prefix and fuzzy matching.
type LexicalMatcher interface {
	Match(query string) []core.MatchCandidate
}

// SemanticMatcher produces local candidates by embedding similarity.
type SemanticMatcher interface {
	QuerySimilar(ctx context.Context, query string, k int) ([]core.MatchCandidate, error)
}

// CatalogGateway produces remote candidates.
type CatalogGateway interface {
	Search(ctx context.Context, term string) ([]core.ExternalCandidate, error)
}

// Selector supplies one selection per step when driving a session with Run.
// Given an ordered 1-indexed list of rendered labels it returns the chosen
// index; 0 signals cancellation.
type Selector interface {
	Select(step string, labels []string) (int, error)
}
