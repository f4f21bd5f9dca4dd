package repository

import (
	"context"

	"palate-core/internal/domain/entity"
)

// TextGenerator submits a prompt to the text-generation capability and
// returns the text parts of the first candidate, in order. Temperature is a
// call-site parameter, never a global: 0.0 for classification/rating calls,
// higher only for open-ended tips.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) ([]string, error)
}

// ImageGenerator submits a prompt to the image-generation capability and
// returns all response parts; callers pick the part carrying image data.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]entity.GeneratedPart, error)
}

// ClassificationCache memoizes classification results by the exact raw query
// string. Get returns entity.ErrCacheMiss when the key is absent. Writes are
// idempotent; concurrent populations of the same key may race.
type ClassificationCache interface {
	Get(ctx context.Context, rawQuery string) (entity.ClassificationResult, error)
	Set(ctx context.Context, rawQuery string, result entity.ClassificationResult) error
}

// ObjectStore is a key→bytes blob store. Get returns entity.ErrObjectNotFound
// when the key is absent.
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
