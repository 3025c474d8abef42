package indexer

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrVocabularyRequired is returned when no vocabulary repository is provided
	ErrVocabularyRequired = errors.New("vocabulary repository is required")

	// ErrEmbedderRequired is returned when no embedder is provided
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrVectorRepositoryRequired is returned when no vector repository is provided
	ErrVectorRepositoryRequired = errors.New("vector repository is required")
)
