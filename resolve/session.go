package resolve

import (
	"context"
	"fmt"

	"github.com/medterm/crosswalk/core"
)

// Session is one resolution in progress. It is not safe for concurrent use;
// a session belongs to a single caller driving it to a terminal state.
type Session struct {
	resolver  *Resolver
	query     string
	direction Direction
	state     State
	monitor   ResolutionMonitor

	localCandidates  []core.MatchCandidate
	remoteCandidates []core.ExternalCandidate
	selectedLocal    *core.MatchCandidate
	selectedRemote   *core.ExternalCandidate

	outcome *Outcome
}

// State returns the session's position in the workflow.
func (s *Session) State() State {
	return s.state
}

// Awaiting reports whether the session still needs a selection.
func (s *Session) Awaiting() bool {
	return s.state == StateAwaitingFirstSelection || s.state == StateAwaitingSecondSelection
}

// Outcome returns the terminal artifact, or nil while the session is still
// awaiting selections.
func (s *Session) Outcome() *Outcome {
	return s.outcome
}

// StepName names the side the pending selection belongs to.
func (s *Session) StepName() string {
	if s.awaitingLocal() {
		return "local"
	}
	return "remote"
}

// Labels renders the pending candidate list as an ordered, 1-indexed set of
// display strings.
func (s *Session) Labels() []string {
	if s.awaitingLocal() {
		labels := make([]string, len(s.localCandidates))
		for i, c := range s.localCandidates {
			labels[i] = c.Label
		}
		return labels
	}

	labels := make([]string, len(s.remoteCandidates))
	for i, c := range s.remoteCandidates {
		labels[i] = c.Code + ", " + c.Title
	}
	return labels
}

// Select confirms one candidate by its 1-indexed position. Index 0 cancels
// the whole resolution. An out-of-range index returns
// ErrSelectionOutOfRange and leaves the session unchanged so the caller can
// re-prompt. Confirming the second selection appends the mapping and
// assembles the dual-coded record.
func (s *Session) Select(ctx context.Context, choice int) error {
	if !s.Awaiting() {
		return ErrInvalidState
	}

	if choice == 0 {
		s.cancel()
		return nil
	}

	if s.state == StateAwaitingFirstSelection {
		return s.selectFirst(ctx, choice)
	}
	return s.selectSecond(ctx, choice)
}

// Cancel aborts the resolution. No mapping state is written.
func (s *Session) Cancel() {
	if s.Awaiting() {
		s.cancel()
	}
}

func (s *Session) selectFirst(ctx context.Context, choice int) error {
	switch s.direction {
	case RemoteToLocal:
		if choice < 1 || choice > len(s.remoteCandidates) {
			return ErrSelectionOutOfRange
		}
		s.selectedRemote = &s.remoteCandidates[choice-1]
		s.monitor.Selected(1, s.selectedRemote.Code+", "+s.selectedRemote.Title)

		local := s.resolver.localCandidates(ctx, s.selectedRemote.Title)
		s.localCandidates = local
		s.monitor.LocalCandidates(local)
		if len(local) == 0 {
			s.noMatches()
			return nil
		}

	default:
		if choice < 1 || choice > len(s.localCandidates) {
			return ErrSelectionOutOfRange
		}
		s.selectedLocal = &s.localCandidates[choice-1]
		s.monitor.Selected(1, s.selectedLocal.Label)

		// The confirmed local selection survives a gateway failure here, so
		// the caller can retry the same choice after a transient error.
		remote, err := s.resolver.gateway.Search(ctx, s.selectedLocal.Display)
		if err != nil {
			s.selectedLocal = nil
			return err
		}
		s.remoteCandidates = remote
		s.monitor.RemoteCandidates(remote)
		if len(remote) == 0 {
			s.noMatches()
			return nil
		}
	}

	s.state = StateAwaitingSecondSelection
	return nil
}

func (s *Session) selectSecond(ctx context.Context, choice int) error {
	switch s.direction {
	case RemoteToLocal:
		if choice < 1 || choice > len(s.localCandidates) {
			return ErrSelectionOutOfRange
		}
		s.selectedLocal = &s.localCandidates[choice-1]
		s.monitor.Selected(2, s.selectedLocal.Label)
	default:
		if choice < 1 || choice > len(s.remoteCandidates) {
			return ErrSelectionOutOfRange
		}
		s.selectedRemote = &s.remoteCandidates[choice-1]
		s.monitor.Selected(2, s.selectedRemote.Code+", "+s.selectedRemote.Title)
	}

	return s.finalize(ctx)
}

// finalize appends the confirmed mapping and assembles the record. Nothing
// is written before this point, so cancellation at any earlier step leaves
// the store untouched.
func (s *Session) finalize(ctx context.Context) error {
	local := s.selectedLocal
	remote := s.selectedRemote

	record, err := AssembleDualCoded(
		core.Coding{System: core.LocalSystemURI(local.System), Code: local.Code, Display: local.Display},
		core.Coding{System: core.RemoteSystemURI, Code: remote.Code, Display: remote.Title},
		s.resolver.subjectRef,
		s.resolver.subjectDisplay,
	)
	if err != nil {
		return err
	}

	mapping, err := s.resolver.mappings.Append(ctx, local.System, local.Code, local.Display, core.MappingTarget{
		System:      core.RemoteSystemURI,
		Code:        remote.Code,
		Display:     remote.Title,
		Equivalence: core.EquivalenceEquivalent,
	})
	if err != nil {
		return fmt.Errorf("appending mapping: %w", err)
	}

	s.resolver.logger.Info("resolution confirmed",
		"system", local.System, "code", local.Code, "remoteCode", remote.Code)

	s.state = StateDone
	s.outcome = &Outcome{Status: StatusResolved, Mapping: mapping, Record: record}
	s.monitor.Finish(s.outcome)
	return nil
}

func (s *Session) awaitingLocal() bool {
	if s.direction == RemoteToLocal {
		return s.state == StateAwaitingSecondSelection
	}
	return s.state == StateAwaitingFirstSelection
}

func (s *Session) noMatches() {
	s.state = StateDone
	s.outcome = &Outcome{Status: StatusNoMatches}
	s.monitor.Finish(s.outcome)
}

func (s *Session) cancel() {
	s.state = StateCancelled
	s.outcome = &Outcome{Status: StatusCancelled}
	s.monitor.Finish(s.outcome)
}
