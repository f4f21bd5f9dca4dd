package usecase

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"

	"palate-core/internal/domain/entity"
)

// textGenStub scripts text responses by handing every prompt to fn and counts
// invocations.
type textGenStub struct {
	mu    sync.Mutex
	calls int
	fn    func(prompt string, temperature float32) ([]string, error)
}

func (s *textGenStub) GenerateText(_ context.Context, prompt string, temperature float32) ([]string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(prompt, temperature)
}

func (s *textGenStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type imageGenStub struct {
	mu    sync.Mutex
	calls int
	fn    func(prompt string) ([]entity.GeneratedPart, error)
}

func (s *imageGenStub) GenerateImage(_ context.Context, prompt string) ([]entity.GeneratedPart, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.fn(prompt)
}

func (s *imageGenStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// memStore is an in-memory ObjectStore.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, entity.ErrObjectNotFound
	}
	return data, nil
}

func (m *memStore) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// memCache is an in-memory ClassificationCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]entity.ClassificationResult
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]entity.ClassificationResult)}
}

func (m *memCache) Get(_ context.Context, rawQuery string) (entity.ClassificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.entries[rawQuery]
	if !ok {
		return entity.ClassificationResult{}, entity.ErrCacheMiss
	}
	return res, nil
}

func (m *memCache) Set(_ context.Context, rawQuery string, result entity.ClassificationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[rawQuery] = result
	return nil
}

// pngBytes encodes a tiny solid image, standing in for generated image data.
func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
