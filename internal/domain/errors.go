package domain

import (
	"errors"
	"fmt"

	apperrors "github.com/rilsonjoas/alternativas-br-sub001/pkg/errors"
)

var (
	// ErrDataUnavailable means the entity source failed and no snapshot
	// was ever loaded.
	ErrDataUnavailable = fmt.Errorf("entity data unavailable: %w", apperrors.ErrServiceUnavail)

	// ErrMalformedCriteria marks a facet that can never match. It is
	// logged, never returned to API callers.
	ErrMalformedCriteria = errors.New("malformed filter criteria")

	// ErrHistoryStorage wraps durable history store failures.
	ErrHistoryStorage = errors.New("search history storage failure")

	// ErrSuggestionFetch wraps failures fetching suggestion candidates.
	ErrSuggestionFetch = errors.New("suggestion fetch failure")
)
