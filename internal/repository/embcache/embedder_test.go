package embcache

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/placerank/placerank/internal/db"
	"github.com/placerank/placerank/internal/domain"
)

type fakeStore struct {
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte) error {
	s.sets++
	s.data[key] = value
	return nil
}

type fakeEmbedder struct {
	vec        []float32
	err        error
	calls      int
	batchCalls int
}

func (e *fakeEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, TotalTokens: 3}, nil
}

func (e *fakeEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	e.batchCalls++
	if e.err != nil {
		return domain.BatchEmbeddingResult{}, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: 3 * len(texts)}, nil
}

func TestEmbed_MissThenHit(t *testing.T) {
	store := newFakeStore()
	inner := &fakeEmbedder{vec: []float32{0.1, 0.2}}
	c := New(inner, store, nil, zap.NewNop())

	ctx := context.Background()

	r1, err := c.Embed(ctx, "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if r1.TotalTokens != 3 {
		t.Errorf("miss must report provider usage, tokens = %d", r1.TotalTokens)
	}

	r2, err := c.Embed(ctx, "hello")
	if err != nil {
		t.Fatalf("Embed (cached): %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("hit must not call inner, calls = %d", inner.calls)
	}
	if r2.TotalTokens != 0 {
		t.Errorf("hit must report zero tokens, got %d", r2.TotalTokens)
	}
	if len(r2.Embedding) != 2 || r2.Embedding[0] != 0.1 {
		t.Errorf("cached vector mismatch: %v", r2.Embedding)
	}
}

func TestEmbed_InnerError(t *testing.T) {
	store := newFakeStore()
	inner := &fakeEmbedder{err: errors.New("provider down")}
	c := New(inner, store, nil, zap.NewNop())

	if _, err := c.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if store.sets != 0 {
		t.Errorf("failed embed must not be cached, sets = %d", store.sets)
	}
}

func TestEmbed_StoreFailureFallsThrough(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection reset")
	inner := &fakeEmbedder{vec: []float32{1}}
	c := New(inner, store, nil, zap.NewNop())

	r, err := c.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("store failure must not fail embedding: %v", err)
	}
	if len(r.Embedding) != 1 {
		t.Errorf("embedding = %v", r.Embedding)
	}
}

func TestBatchEmbed_PartialHits(t *testing.T) {
	store := newFakeStore()
	inner := &fakeEmbedder{vec: []float32{0.5}}
	c := New(inner, store, nil, zap.NewNop())

	ctx := context.Background()

	// Warm up one of three texts.
	if _, err := c.Embed(ctx, "b"); err != nil {
		t.Fatalf("warmup: %v", err)
	}

	res, err := c.BatchEmbed(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("embeddings len = %d", len(res.Embeddings))
	}
	for i, v := range res.Embeddings {
		if len(v) != 1 {
			t.Errorf("embeddings[%d] = %v", i, v)
		}
	}
	if inner.batchCalls != 1 {
		t.Errorf("batch calls = %d, want 1", inner.batchCalls)
	}
	// Only the two misses were embedded.
	if res.TotalTokens != 6 {
		t.Errorf("tokens = %d, want 6 (two misses)", res.TotalTokens)
	}
}

func TestBatchEmbed_AllHits(t *testing.T) {
	store := newFakeStore()
	inner := &fakeEmbedder{vec: []float32{0.5}}
	c := New(inner, store, nil, zap.NewNop())

	ctx := context.Background()
	if _, err := c.BatchEmbed(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	before := inner.batchCalls

	res, err := c.BatchEmbed(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}
	if inner.batchCalls != before {
		t.Errorf("all-hit batch must not call inner")
	}
	if res.TotalTokens != 0 {
		t.Errorf("all-hit tokens = %d, want 0", res.TotalTokens)
	}
}
