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

package crosswalk

import (
	"context"
	"log/slog"

	"github.com/medterm/crosswalk/ai"
	"github.com/medterm/crosswalk/ai/openai"
	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/icd"
	"github.com/medterm/crosswalk/indexer"
	"github.com/medterm/crosswalk/match"
	"github.com/medterm/crosswalk/resolve"
	"github.com/medterm/crosswalk/storage"
	"github.com/medterm/crosswalk/storage/badger"
	"github.com/medterm/crosswalk/vocabulary"
)

// Engine wires the vocabulary, the persisted index, the mapping store, and
// the embedding service into one handle.
type Engine struct {
	backend     *badger.Backend
	vocab       *vocabulary.Repository
	vectorRepo  storage.VectorRepository
	mappingRepo storage.MappingRepository
	embedder    ai.Embedder
	logger      *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	sources  []vocabulary.Source
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig overrides the embedding service configuration.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithSources overrides the vocabulary source files.
// Default is DefaultSources over the data directory.
func WithSources(sources []vocabulary.Source) EngineOption {
	return func(o *engineOptions) {
		o.sources = sources
	}
}

// WithEmbedder substitutes the embedder, typically for tests.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithInMemoryStorage uses an in-memory index and mapping store.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine loads the vocabulary from dataDir and opens the store at dbPath.
func NewEngine(dataDir, dbPath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	sources := options.sources
	if sources == nil {
		sources = vocabulary.DefaultSources(dataDir)
	}

	vocab, err := vocabulary.Load(sources)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	vectorRepo, err := badger.NewVectorRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	mappingRepo, err := badger.NewMappingRepository(backend)
	if err != nil {
		vectorRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			mappingRepo.Close()
			vectorRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Engine{
		backend:     backend,
		vocab:       vocab,
		vectorRepo:  vectorRepo,
		mappingRepo: mappingRepo,
		embedder:    embedder,
		logger:      slog.Default(),
	}, nil
}

func (e *Engine) Close() error {
	if err := e.mappingRepo.Close(); err != nil {
		e.logger.Error("error closing mapping repository", "err", err)
		return err
	}
	if err := e.vectorRepo.Close(); err != nil {
		e.logger.Error("error closing vector repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) Vocabulary() *vocabulary.Repository {
	return e.vocab
}

func (e *Engine) VectorRepository() storage.VectorRepository {
	return e.vectorRepo
}

func (e *Engine) MappingRepository() storage.MappingRepository {
	return e.mappingRepo
}

func (e *Engine) NewIndexer(opts ...indexer.Option) (*indexer.Indexer, error) {
	return indexer.NewIndexer(e.vocab, e.embedder, e.vectorRepo, opts...)
}

func (e *Engine) NewLexicalMatcher(opts ...match.LexicalOption) (*match.LexicalMatcher, error) {
	return match.NewLexicalMatcher(e.vocab, opts...)
}

func (e *Engine) NewSemanticMatcher(opts ...match.SemanticOption) (*match.SemanticMatcher, error) {
	return match.NewSemanticMatcher(e.embedder, e.vectorRepo, e.vocab, opts...)
}

// NewResolver builds a resolver backed by both matchers and a catalog
// gateway with the given configuration.
func (e *Engine) NewResolver(gatewayCfg icd.Config, opts ...resolve.Option) (*resolve.Resolver, error) {
	gateway, err := icd.NewGateway(gatewayCfg)
	if err != nil {
		return nil, err
	}

	lexical, err := e.NewLexicalMatcher()
	if err != nil {
		return nil, err
	}

	semantic, err := e.NewSemanticMatcher()
	if err != nil {
		return nil, err
	}

	opts = append([]resolve.Option{resolve.WithSemanticMatcher(semantic)}, opts...)
	return resolve.NewResolver(lexical, gateway, e.mappingRepo, opts...)
}

// Suggest returns lexical candidates for a query, the way an autocomplete
// endpoint would consume them.
func (e *Engine) Suggest(query string) ([]core.MatchCandidate, error) {
	lexical, err := e.NewLexicalMatcher()
	if err != nil {
		return nil, err
	}
	return lexical.Match(query), nil
}

// Translate returns the recorded remote targets for a local concept. An
// unmapped code yields an empty slice, not an error.
func (e *Engine) Translate(ctx context.Context, system, code, targetSystem string) ([]core.MappingTarget, error) {
	return e.mappingRepo.Translate(ctx, system, code, targetSystem)
}
