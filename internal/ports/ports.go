package ports

import (
	"context"

	"brandmonitor/internal/domain"
	"brandmonitor/internal/vocab"
)

// ReviewSource pulls raw review items about a brand from upstream platforms.
// Implementations tolerate partial failure: a subset of platforms failing
// yields fewer items, not an error.
type ReviewSource interface {
	Fetch(ctx context.Context, brand string) ([]domain.Review, error)
}

// VocabularyLoader yields the current vocabulary snapshot for a batch.
type VocabularyLoader interface {
	Load() (vocab.Vocabulary, error)
}
