package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"palate-core/internal/platform/logger"
)

func newFastResilient(primary, fallback *textGenStub) *ResilientText {
	r := NewResilientText(primary, fallback, logger.NewNop())
	r.baseDelay = time.Millisecond
	return r
}

func TestResilientFallsBackAfterRetries(t *testing.T) {
	primary := &textGenStub{fn: func(string, float32) ([]string, error) {
		return nil, errors.New("503 service overloaded")
	}}
	fallback := &textGenStub{fn: func(string, float32) ([]string, error) {
		return []string{"fallback answer"}, nil
	}}
	r := newFastResilient(primary, fallback)

	parts, err := r.GenerateText(context.Background(), "prompt", 0)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if parts[0] != "fallback answer" {
		t.Fatalf("unexpected parts: %v", parts)
	}
	if primary.callCount() != 3 {
		t.Fatalf("primary attempts: want 3 got %d", primary.callCount())
	}
}

func TestResilientNoRetryOnNonRetryableError(t *testing.T) {
	primary := &textGenStub{fn: func(string, float32) ([]string, error) {
		return nil, errors.New("400 invalid argument")
	}}
	fallback := &textGenStub{fn: func(string, float32) ([]string, error) {
		return []string{"fallback answer"}, nil
	}}
	r := newFastResilient(primary, fallback)

	if _, err := r.GenerateText(context.Background(), "prompt", 0); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if primary.callCount() != 1 {
		t.Fatalf("primary attempts: want 1 got %d", primary.callCount())
	}
}

func TestResilientPrimarySuccessSkipsFallback(t *testing.T) {
	primary := &textGenStub{fn: func(string, float32) ([]string, error) {
		return []string{"primary answer"}, nil
	}}
	fallback := &textGenStub{fn: func(string, float32) ([]string, error) {
		t.Fatal("fallback must not run when primary succeeds")
		return nil, nil
	}}
	r := newFastResilient(primary, fallback)

	parts, err := r.GenerateText(context.Background(), "prompt", 0)
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if parts[0] != "primary answer" {
		t.Fatalf("unexpected parts: %v", parts)
	}
}

func TestResilientBothFail(t *testing.T) {
	boom := errors.New("500 backend error")
	primary := &textGenStub{fn: func(string, float32) ([]string, error) { return nil, boom }}
	fallback := &textGenStub{fn: func(string, float32) ([]string, error) { return nil, boom }}
	r := newFastResilient(primary, fallback)

	if _, err := r.GenerateText(context.Background(), "prompt", 0); !errors.Is(err, boom) {
		t.Fatalf("want upstream error, got %v", err)
	}
}
