// Copyright 2025 Medterm Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/match"
	"github.com/medterm/crosswalk/storage"
)

const (
	// DefaultSubjectRef is the subject reference stamped onto assembled
	// records when the caller provides none.
	DefaultSubjectRef = "Patient/example"

	// DefaultSubjectDisplay is the matching display text.
	DefaultSubjectDisplay = "Example Patient"

	// semanticK is how many semantic neighbors are merged behind the
	// lexical candidates.
	semanticK = match.DefaultLimit
)

// Resolver builds resolution sessions over the matching strategies, the
// catalog gateway, and the mapping store.
type Resolver struct {
	lexical        LexicalMatcher
	semantic       SemanticMatcher
	gateway        CatalogGateway
	mappings       storage.MappingRepository
	subjectRef     string
	subjectDisplay string
	logger         *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithSemanticMatcher enables embedding-based candidates behind the lexical
// ones. A matcher that reports its index unavailable degrades the session
// to lexical-only candidates rather than failing it.
func WithSemanticMatcher(semantic SemanticMatcher) Option {
	return func(r *Resolver) error {
		r.semantic = semantic
		return nil
	}
}

// WithSubject overrides the subject metadata stamped onto assembled records.
func WithSubject(ref, display string) Option {
	return func(r *Resolver) error {
		if ref != "" {
			r.subjectRef = ref
		}
		if display != "" {
			r.subjectDisplay = display
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a resolver from its collaborators.
func NewResolver(lexical LexicalMatcher, gateway CatalogGateway, mappings storage.MappingRepository, opts ...Option) (*Resolver, error) {
	if lexical == nil {
		return nil, ErrLexicalRequired
	}
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	if mappings == nil {
		return nil, ErrMappingRepositoryRequired
	}

	r := &Resolver{
		lexical:        lexical,
		gateway:        gateway,
		mappings:       mappings,
		subjectRef:     DefaultSubjectRef,
		subjectDisplay: DefaultSubjectDisplay,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Begin starts a resolution session and fetches first-step candidates.
func (r *Resolver) Begin(ctx context.Context, query string, direction Direction) (*Session, error) {
	return r.BeginWithMonitor(ctx, query, direction, nil)
}

// BeginWithMonitor starts a resolution session with workflow observation.
// If monitor is nil, no monitoring is performed.
func (r *Resolver) BeginWithMonitor(ctx context.Context, query string, direction Direction, monitor ResolutionMonitor) (*Session, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	monitor.Start(query, direction)

	s := &Session{
		resolver:  r,
		query:     query,
		direction: direction,
		monitor:   monitor,
	}

	switch direction {
	case RemoteToLocal:
		remote, err := r.gateway.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		s.remoteCandidates = remote
		monitor.RemoteCandidates(remote)
		if len(remote) == 0 {
			s.noMatches()
			return s, nil
		}
	default:
		local := r.localCandidates(ctx, query)
		s.localCandidates = local
		monitor.LocalCandidates(local)
		if len(local) == 0 {
			s.noMatches()
			return s, nil
		}
	}

	s.state = StateAwaitingFirstSelection
	return s, nil
}

// Run drives a full resolution through the given selector, re-prompting on
// out-of-range selections until the session reaches a terminal state.
func (r *Resolver) Run(ctx context.Context, query string, direction Direction, selector Selector) (*Outcome, error) {
	return r.RunWithMonitor(ctx, query, direction, selector, nil)
}

// RunWithMonitor drives a full resolution with workflow observation.
func (r *Resolver) RunWithMonitor(ctx context.Context, query string, direction Direction, selector Selector, monitor ResolutionMonitor) (*Outcome, error) {
	session, err := r.BeginWithMonitor(ctx, query, direction, monitor)
	if err != nil {
		return nil, err
	}

	for session.Awaiting() {
		choice, err := selector.Select(session.StepName(), session.Labels())
		if err != nil {
			return nil, err
		}
		if err := session.Select(ctx, choice); err != nil {
			if errors.Is(err, ErrSelectionOutOfRange) {
				continue
			}
			return nil, err
		}
	}

	return session.Outcome(), nil
}

// localCandidates merges lexical and semantic hits, lexical first, deduped
// by code. Semantic unavailability or failure degrades to lexical-only.
func (r *Resolver) localCandidates(ctx context.Context, query string) []core.MatchCandidate {
	lexical := r.lexical.Match(query)
	if r.semantic == nil {
		return lexical
	}

	semantic, err := r.semantic.QuerySimilar(ctx, query, semanticK)
	if err != nil {
		if errors.Is(err, match.ErrIndexUnavailable) {
			r.logger.Debug("semantic index unavailable, serving lexical candidates only")
		} else {
			r.logger.Warn("semantic search failed, serving lexical candidates only", "err", err)
		}
		return lexical
	}

	return match.MergeByCode(lexical, semantic)
}
