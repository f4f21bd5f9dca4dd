package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"palate-core/internal/domain/repository"
	"palate-core/internal/platform/logger"
)

// ResilientText shields the pipeline from a flaky upstream model: it retries
// the primary text model with exponential backoff on retryable transport
// errors, then tries a cheaper fallback model once.
type ResilientText struct {
	primary    repository.TextGenerator
	fallback   repository.TextGenerator
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
	log        *logger.Logger
}

func NewResilientText(primary, fallback repository.TextGenerator, log *logger.Logger) *ResilientText {
	return &ResilientText{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2, // total 3 attempts for primary
		baseDelay:  500 * time.Millisecond,
		timeout:    25 * time.Second, // global cap per generation
		log:        log.With("component", "resilient_text"),
	}
}

func (r *ResilientText) GenerateText(ctx context.Context, prompt string, temperature float32) ([]string, error) {
	// Scoped timeout so one slow call can't hang the whole request chain.
	genCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	parts, err := r.executeWithRetry(genCtx, prompt, temperature)
	if err == nil {
		return parts, nil
	}

	r.log.Warn("primary model exhausted, switching to fallback", "error", err)

	if r.fallback == nil {
		return nil, err
	}
	parts, err = r.fallback.GenerateText(genCtx, prompt, temperature)
	if err != nil {
		return nil, fmt.Errorf("both primary and fallback failed: %w", err)
	}
	return parts, nil
}

func (r *ResilientText) executeWithRetry(ctx context.Context, prompt string, temperature float32) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		parts, err := r.primary.GenerateText(ctx, prompt, temperature)
		if err == nil {
			return parts, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}

		select {
		case <-time.After(r.calculateBackoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	// Retry on rate limits (429) and server errors (5xx)
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "deadline")
}

func (r *ResilientText) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff // 20% jitter
	return time.Duration(backoff + jitter)
}
