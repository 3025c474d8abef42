package resolve

import "github.com/medterm/crosswalk/core"

// ResolutionMonitor provides hooks to observe the resolution workflow.
// Implement this interface to track candidate sets and selections per step.
type ResolutionMonitor interface {
	Start(query string, direction Direction)
	LocalCandidates(candidates []core.MatchCandidate)
	RemoteCandidates(candidates []core.ExternalCandidate)
	Selected(step int, label string)
	Finish(outcome *Outcome)
}

// noopMonitor is a no-op implementation of ResolutionMonitor
type noopMonitor struct{}

var _ ResolutionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ Direction)                 {}
func (n *noopMonitor) LocalCandidates(_ []core.MatchCandidate)     {}
func (n *noopMonitor) RemoteCandidates(_ []core.ExternalCandidate) {}
func (n *noopMonitor) Selected(_ int, _ string)                    {}
func (n *noopMonitor) Finish(_ *Outcome)                           {}
