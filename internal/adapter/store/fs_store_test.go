package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"palate-core/internal/domain/entity"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	payload := []byte{0xff, 0xd8, 0xff, 0x01, 0x02}
	if err := s.Put(ctx, "pizza.jpg", payload, "image/jpeg"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "pizza.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip changed bytes: want %v got %v", payload, got)
	}
}

func TestFSStoreMiss(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if _, err := s.Get(context.Background(), "missing.jpg"); !errors.Is(err, entity.ErrObjectNotFound) {
		t.Fatalf("want ErrObjectNotFound, got %v", err)
	}
}

func TestFSStoreRefusesPathKeys(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"../escape.jpg", "a/b.jpg", "..", ""} {
		if err := s.Put(ctx, key, []byte("x"), "image/jpeg"); err == nil {
			t.Fatalf("Put(%q): want error for non-flat key", key)
		}
		if _, err := s.Get(ctx, key); err == nil {
			t.Fatalf("Get(%q): want error for non-flat key", key)
		}
	}

	if _, err := os.Stat(filepath.Join(root, "..", "escape.jpg")); !os.IsNotExist(err) {
		t.Fatal("write escaped the store root")
	}
}

func TestFSStoreList(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"pizza.jpg", "pasta.jpg", "apple.jpg"} {
		if err := s.Put(ctx, key, []byte("x"), "image/jpeg"); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	keys, err := s.List(ctx, "p")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("List(p): want 2 keys got %v", keys)
	}
}
