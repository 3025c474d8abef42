package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/match"
	"github.com/medterm/crosswalk/storage"
	storagebadger "github.com/medterm/crosswalk/storage/badger"
)

// fakeLexical returns canned candidates for any query.
type fakeLexical struct {
	candidates []core.MatchCandidate
	lastQuery  string
}

func (f *fakeLexical) Match(query string) []core.MatchCandidate {
	f.lastQuery = query
	return f.candidates
}

// fakeSemantic returns canned candidates or a canned error.
type fakeSemantic struct {
	candidates []core.MatchCandidate
	err        error
}

func (f *fakeSemantic) QuerySimilar(ctx context.Context, query string, k int) ([]core.MatchCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

// fakeGateway returns canned remote candidates or a canned error.
type fakeGateway struct {
	candidates []core.ExternalCandidate
	err        error
	lastTerm   string
	calls      int
}

func (f *fakeGateway) Search(ctx context.Context, term string) ([]core.ExternalCandidate, error) {
	f.calls++
	f.lastTerm = term
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

// scriptedSelector replays a fixed sequence of selections.
type scriptedSelector struct {
	choices []int
	next    int
}

func (s *scriptedSelector) Select(step string, labels []string) (int, error) {
	if s.next >= len(s.choices) {
		return 0, errors.New("selector exhausted")
	}
	choice := s.choices[s.next]
	s.next++
	return choice, nil
}

func jaundiceCandidate() core.MatchCandidate {
	return core.MatchCandidate{
		Code:       "AB",
		System:     "Siddha",
		Display:    "Jaundice",
		Vernacular: "Manjal Kamalai",
		Score:      match.PrefixScore,
		Source:     core.MatchPrefix,
		Label:      "AB, Siddha: Jaundice, Manjal Kamalai",
	}
}

func remoteCandidates() []core.ExternalCandidate {
	return []core.ExternalCandidate{
		{Code: "ME10.1", Title: "Unspecified jaundice", EntityID: "1"},
		{Code: "SA01", Title: "Jaundice disorder", EntityID: "2"},
	}
}

func newTestResolver(t *testing.T, lexical *fakeLexical, gateway *fakeGateway, opts ...Option) (*Resolver, storage.MappingRepository) {
	t.Helper()

	_, mappings, backend, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		mappings.Close()
		backend.Close()
	})

	resolver, err := NewResolver(lexical, gateway, mappings, opts...)
	require.NoError(t, err)
	return resolver, mappings
}

func TestResolver_LocalToRemoteHappyPath(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	gateway := &fakeGateway{candidates: remoteCandidates()}
	resolver, mappings := newTestResolver(t, lexical, gateway)
	ctx := context.Background()

	session, err := resolver.Begin(ctx, "jaund", LocalToRemote)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingFirstSelection, session.State())
	assert.Equal(t, "local", session.StepName())
	assert.Equal(t, []string{"AB, Siddha: Jaundice, Manjal Kamalai"}, session.Labels())

	require.NoError(t, session.Select(ctx, 1))
	assert.Equal(t, StateAwaitingSecondSelection, session.State())
	assert.Equal(t, "remote", session.StepName())
	assert.Equal(t, "Jaundice", gateway.lastTerm)

	require.NoError(t, session.Select(ctx, 1))
	assert.Equal(t, StateDone, session.State())

	outcome := session.Outcome()
	require.NotNil(t, outcome)
	assert.Equal(t, StatusResolved, outcome.Status)

	require.NotNil(t, outcome.Mapping)
	assert.True(t, outcome.Mapping.HasTarget(core.RemoteSystemURI, "ME10.1"))

	require.NotNil(t, outcome.Record)
	require.Len(t, outcome.Record.Codings, 2)
	assert.Equal(t, core.LocalSystemURI("Siddha"), outcome.Record.Codings[0].System)
	assert.Equal(t, "AB", outcome.Record.Codings[0].Code)
	assert.Equal(t, core.RemoteSystemURI, outcome.Record.Codings[1].System)
	assert.Equal(t, "ME10.1", outcome.Record.Codings[1].Code)
	assert.NoError(t, core.ValidateDualCoded(outcome.Record))

	targets, err := mappings.Translate(ctx, "Siddha", "AB", core.RemoteSystemURI)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "ME10.1", targets[0].Code)
}

func TestResolver_RemoteToLocalHappyPath(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	gateway := &fakeGateway{candidates: remoteCandidates()}
	resolver, _ := newTestResolver(t, lexical, gateway)
	ctx := context.Background()

	session, err := resolver.Begin(ctx, "jaundice", RemoteToLocal)
	require.NoError(t, err)
	assert.Equal(t, "remote", session.StepName())
	assert.Equal(t, []string{"ME10.1, Unspecified jaundice", "SA01, Jaundice disorder"}, session.Labels())

	require.NoError(t, session.Select(ctx, 2))
	assert.Equal(t, "local", session.StepName())
	// The selected remote title becomes the local search term.
	assert.Equal(t, "Jaundice disorder", lexical.lastQuery)

	require.NoError(t, session.Select(ctx, 1))
	outcome := session.Outcome()
	require.NotNil(t, outcome)
	assert.Equal(t, StatusResolved, outcome.Status)
	assert.True(t, outcome.Mapping.HasTarget(core.RemoteSystemURI, "SA01"))
}

func TestResolver_CancellationAppendsNothing(t *testing.T) {
	t.Run("first step", func(t *testing.T) {
		lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
		gateway := &fakeGateway{candidates: remoteCandidates()}
		resolver, mappings := newTestResolver(t, lexical, gateway)
		ctx := context.Background()

		session, err := resolver.Begin(ctx, "jaund", LocalToRemote)
		require.NoError(t, err)
		require.NoError(t, session.Select(ctx, 0))
		assert.Equal(t, StateCancelled, session.State())
		assert.Equal(t, StatusCancelled, session.Outcome().Status)

		targets, err := mappings.Translate(ctx, "Siddha", "AB", core.RemoteSystemURI)
		require.NoError(t, err)
		assert.Empty(t, targets)
	})

	t.Run("second step", func(t *testing.T) {
		lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
		gateway := &fakeGateway{candidates: remoteCandidates()}
		resolver, mappings := newTestResolver(t, lexical, gateway)
		ctx := context.Background()

		session, err := resolver.Begin(ctx, "jaund", LocalToRemote)
		require.NoError(t, err)
		require.NoError(t, session.Select(ctx, 1))
		require.NoError(t, session.Select(ctx, 0))
		assert.Equal(t, StatusCancelled, session.Outcome().Status)

		targets, err := mappings.Translate(ctx, "Siddha", "AB", core.RemoteSystemURI)
		require.NoError(t, err)
		assert.Empty(t, targets)
	})
}

func TestResolver_NoMatchesIsTerminal(t *testing.T) {
	t.Run("no local candidates", func(t *testing.T) {
		resolver, _ := newTestResolver(t, &fakeLexical{}, &fakeGateway{candidates: remoteCandidates()})

		session, err := resolver.Begin(context.Background(), "zzz", LocalToRemote)
		require.NoError(t, err)
		assert.Equal(t, StateDone, session.State())
		assert.Equal(t, StatusNoMatches, session.Outcome().Status)
	})

	t.Run("no remote candidates after local selection", func(t *testing.T) {
		lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
		resolver, _ := newTestResolver(t, lexical, &fakeGateway{})
		ctx := context.Background()

		session, err := resolver.Begin(ctx, "jaund", LocalToRemote)
		require.NoError(t, err)
		require.NoError(t, session.Select(ctx, 1))
		assert.Equal(t, StateDone, session.State())
		assert.Equal(t, StatusNoMatches, session.Outcome().Status)
	})
}

func TestResolver_OutOfRangeSelectionLeavesStateUnchanged(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	gateway := &fakeGateway{candidates: remoteCandidates()}
	resolver, _ := newTestResolver(t, lexical, gateway)
	ctx := context.Background()

	session, err := resolver.Begin(ctx, "jaund", LocalToRemote)
	require.NoError(t, err)

	assert.ErrorIs(t, session.Select(ctx, 99), ErrSelectionOutOfRange)
	assert.ErrorIs(t, session.Select(ctx, -1), ErrSelectionOutOfRange)
	assert.Equal(t, StateAwaitingFirstSelection, session.State())

	require.NoError(t, session.Select(ctx, 1))
	assert.Equal(t, StateAwaitingSecondSelection, session.State())
}

func TestResolver_SelectOnFinishedSession(t *testing.T) {
	resolver, _ := newTestResolver(t, &fakeLexical{}, &fakeGateway{})

	session, err := resolver.Begin(context.Background(), "zzz", LocalToRemote)
	require.NoError(t, err)
	assert.ErrorIs(t, session.Select(context.Background(), 1), ErrInvalidState)
}

func TestResolver_SemanticUnavailableDegradesToLexical(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	semantic := &fakeSemantic{err: match.ErrIndexUnavailable}
	gateway := &fakeGateway{candidates: remoteCandidates()}
	resolver, _ := newTestResolver(t, lexical, gateway, WithSemanticMatcher(semantic))

	session, err := resolver.Begin(context.Background(), "jaund", LocalToRemote)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingFirstSelection, session.State())
	assert.Len(t, session.Labels(), 1)
}

func TestResolver_SemanticCandidatesMergedBehindLexical(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	semantic := &fakeSemantic{candidates: []core.MatchCandidate{
		{Code: "AB", System: "Siddha", Display: "Jaundice", Score: 0.99, Source: core.MatchSemantic, Label: "dup"},
		{Code: "AC", System: "Siddha", Display: "Anaemia", Score: 0.6, Source: core.MatchSemantic, Label: "AC, Siddha: Anaemia, Veluppu Noi"},
	}}
	gateway := &fakeGateway{candidates: remoteCandidates()}
	resolver, _ := newTestResolver(t, lexical, gateway, WithSemanticMatcher(semantic))

	session, err := resolver.Begin(context.Background(), "jaund", LocalToRemote)
	require.NoError(t, err)

	labels := session.Labels()
	require.Len(t, labels, 2)
	// The lexical occurrence of AB wins the dedup.
	assert.Equal(t, "AB, Siddha: Jaundice, Manjal Kamalai", labels[0])
	assert.Equal(t, "AC, Siddha: Anaemia, Veluppu Noi", labels[1])
}

func TestResolver_GatewayErrorSurfacedAtBegin(t *testing.T) {
	wantErr := errors.New("authentication failed")
	resolver, _ := newTestResolver(t, &fakeLexical{}, &fakeGateway{err: wantErr})

	_, err := resolver.Begin(context.Background(), "jaundice", RemoteToLocal)
	assert.ErrorIs(t, err, wantErr)
}

func TestResolver_GatewayErrorAfterFirstSelectionIsRetryable(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	gateway := &fakeGateway{err: errors.New("timeout")}
	resolver, mappings := newTestResolver(t, lexical, gateway)
	ctx := context.Background()

	session, err := resolver.Begin(ctx, "jaund", LocalToRemote)
	require.NoError(t, err)

	assert.Error(t, session.Select(ctx, 1))
	assert.Equal(t, StateAwaitingFirstSelection, session.State())

	targets, err := mappings.Translate(ctx, "Siddha", "AB", core.RemoteSystemURI)
	require.NoError(t, err)
	assert.Empty(t, targets)

	// Transient error clears; the same selection succeeds.
	gateway.err = nil
	gateway.candidates = remoteCandidates()
	require.NoError(t, session.Select(ctx, 1))
	assert.Equal(t, StateAwaitingSecondSelection, session.State())
}

func TestResolver_EmptyQuery(t *testing.T) {
	resolver, _ := newTestResolver(t, &fakeLexical{}, &fakeGateway{})

	_, err := resolver.Begin(context.Background(), "  ", LocalToRemote)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestResolver_Run(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	gateway := &fakeGateway{candidates: remoteCandidates()}
	resolver, _ := newTestResolver(t, lexical, gateway)

	outcome, err := resolver.Run(context.Background(), "jaund", LocalToRemote, &scriptedSelector{choices: []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, outcome.Status)
	assert.True(t, outcome.Mapping.HasTarget(core.RemoteSystemURI, "SA01"))
}

func TestResolver_RunRepromptsOnOutOfRange(t *testing.T) {
	lexical := &fakeLexical{candidates: []core.MatchCandidate{jaundiceCandidate()}}
	gateway := &fakeGateway{candidates: remoteCandidates()}
	resolver, _ := newTestResolver(t, lexical, gateway)

	outcome, err := resolver.Run(context.Background(), "jaund", LocalToRemote, &scriptedSelector{choices: []int{7, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, outcome.Status)
}

func TestNewResolver_RequiresCollaborators(t *testing.T) {
	_, mappings, backend, err := storagebadger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	defer mappings.Close()

	_, err = NewResolver(nil, &fakeGateway{}, mappings)
	assert.ErrorIs(t, err, ErrLexicalRequired)

	_, err = NewResolver(&fakeLexical{}, nil, mappings)
	assert.ErrorIs(t, err, ErrGatewayRequired)

	_, err = NewResolver(&fakeLexical{}, &fakeGateway{}, nil)
	assert.ErrorIs(t, err, ErrMappingRepositoryRequired)
}
