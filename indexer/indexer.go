package indexer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/medterm/crosswalk/ai"
	"github.com/medterm/crosswalk/core"
	"github.com/medterm/crosswalk/storage"
	"github.com/medterm/crosswalk/vocabulary"
)

const (
	// DefaultBatchSize is the number of concepts embedded per API call.
	DefaultBatchSize = 32

	// DefaultMaxRetries is the retry budget per embedding batch.
	DefaultMaxRetries = 3

	// DefaultRetryBaseDelay is the base delay for exponential backoff.
	DefaultRetryBaseDelay = time.Second
)

// Indexer embeds every vocabulary concept and persists the vectors.
type Indexer struct {
	repo           *vocabulary.Repository
	vectors        storage.VectorRepository
	embedder       ai.Embedder
	pool           *ants.Pool
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	progressWriter io.Writer
	logger         *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for concurrent batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithBatchSize sets how many concepts are embedded per API call.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(ix *Indexer) error {
		if size > 0 {
			ix.batchSize = size
		}
		return nil
	}
}

// WithRetry overrides the retry budget and base delay for embedding calls.
func WithRetry(maxRetries int, baseDelay time.Duration) Option {
	return func(ix *Indexer) error {
		if maxRetries > 0 {
			ix.maxRetries = maxRetries
		}
		if baseDelay > 0 {
			ix.retryBaseDelay = baseDelay
		}
		return nil
	}
}

// WithProgressWriter enables progress reporting to the given writer.
// Default is no progress output.
func WithProgressWriter(w io.Writer) Option {
	return func(ix *Indexer) error {
		ix.progressWriter = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer over the given repository, embedder, and
// vector store.
func NewIndexer(repo *vocabulary.Repository, embedder ai.Embedder, vectors storage.VectorRepository, opts ...Option) (*Indexer, error) {
	if repo == nil {
		return nil, ErrVocabularyRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Indexer{
		repo:           repo,
		vectors:        vectors,
		embedder:       embedder,
		pool:           pool,
		batchSize:      DefaultBatchSize,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}

	return ix, nil
}

// EmbedText renders the text embedded for one concept: the display term
// followed by its first vernacular designation.
func EmbedText(concept *core.Concept) string {
	return concept.Display + ": " + concept.Vernacular()
}

// Build embeds every loaded concept and persists the vectors. A populated
// index is left untouched unless force is set; rebuilds must not run while
// queries are being served.
// Returns the number of concepts indexed.
func (ix *Indexer) Build(ctx context.Context, force bool) (int, error) {
	count, err := ix.vectors.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking existing index: %w", err)
	}
	if count > 0 && !force {
		ix.logger.Info("index already populated, skipping build", "vectors", count)
		return 0, nil
	}

	concepts := ix.repo.All()
	if len(concepts) == 0 {
		return 0, nil
	}

	var tracker *ProgressTracker
	if ix.progressWriter != nil {
		tracker = NewProgressTracker(ix.progressWriter, len(concepts), ix.batchSize)
		tracker.Start()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(concepts); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(concepts) {
			end = len(concepts)
		}
		batch := concepts[start:end]

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			if err := ix.processBatch(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			if tracker != nil {
				tracker.Increment(len(batch))
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return 0, firstErr
	}
	if tracker != nil {
		tracker.Finish()
		ix.logger.Info("index build complete", "concepts", len(concepts), "elapsed", tracker.Elapsed())
	} else {
		ix.logger.Info("index build complete", "concepts", len(concepts))
	}
	return len(concepts), nil
}

// processBatch embeds one batch of concepts and writes the normalized
// vectors.
func (ix *Indexer) processBatch(ctx context.Context, batch []*core.Concept) error {
	texts := make([]string, len(batch))
	for i, concept := range batch {
		texts[i] = EmbedText(concept)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = ix.embedder.EmbedTexts(ctx, texts)
		return err
	}, ix.maxRetries, ix.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("embedding batch after %d attempts: %w", ix.maxRetries, err)
	}

	if len(embeddings) != len(batch) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(batch), len(embeddings))
	}

	vectors := make([]*core.ConceptVector, len(batch))
	for i, concept := range batch {
		vectors[i] = &core.ConceptVector{
			System: concept.System,
			Code:   concept.Code,
			Vector: core.NormalizeVector(embeddings[i]),
		}
	}

	if err := ix.vectors.PutVectors(ctx, vectors...); err != nil {
		return fmt.Errorf("persisting vectors: %w", err)
	}
	return nil
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}
