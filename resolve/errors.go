package resolve

import "errors"

var (
	// ErrLexicalRequired is returned when no lexical matcher is provided
	ErrLexicalRequired = errors.New("lexical matcher is required")

	// ErrGatewayRequired is returned when no catalog gateway is provided
	ErrGatewayRequired = errors.New("catalog gateway is required")

	// ErrMappingRepositoryRequired is returned when no mapping repository is provided
	ErrMappingRepositoryRequired = errors.New("mapping repository is required")

	// ErrInvalidState is returned when Select is called on a finished session.
	ErrInvalidState = errors.New("session is not awaiting a selection")

	// ErrSelectionOutOfRange is returned for a selection index outside the
	// candidate list. Callers re-prompt; the session state is unchanged.
	ErrSelectionOutOfRange = errors.New("selection index out of range")

	// ErrEmptyQuery is returned when a resolution is started with a blank query.
	ErrEmptyQuery = errors.New("query must not be empty")
)
