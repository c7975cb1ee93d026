package memory

import (
	"context"
	"testing"

	"ragchat/internal/domain"
)

func TestStorage_SearchOrdersByScore(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 2); err != nil {
		t.Fatal(err)
	}
	chunks := []domain.Chunk{{ChunkID: "a"}, {ChunkID: "b"}, {ChunkID: "c"}}
	vectors := [][]float64{{1, 0}, {0, 1}, {0.6, 0.8}}
	if err := s.Upsert(ctx, chunks, vectors); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	res, err := s.Search(ctx, []float64{0, 1}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 || res[0].Chunk.ChunkID != "b" || res[1].Chunk.ChunkID != "c" {
		t.Errorf("unexpected results %+v", res)
	}
}

func TestStorage_UpsertReplacesSameID(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_ = s.Init(ctx, 1)
	_ = s.Upsert(ctx, []domain.Chunk{{ChunkID: "a", Text: "old"}}, [][]float64{{1}})
	_ = s.Upsert(ctx, []domain.Chunk{{ChunkID: "a", Text: "new"}}, [][]float64{{1}})
	if s.Len() != 1 {
		t.Fatalf("expected 1 chunk, got %d", s.Len())
	}
	res, _ := s.Search(ctx, []float64{1}, 1)
	if res[0].Chunk.Text != "new" {
		t.Errorf("expected replaced chunk, got %+v", res[0])
	}
}

func TestStorage_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	if err := s.Init(ctx, 0); err == nil {
		t.Error("expected invalid dimension error")
	}
	_ = s.Init(ctx, 2)
	if err := s.Upsert(ctx, []domain.Chunk{{ChunkID: "a"}}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
	if err := s.Upsert(ctx, []domain.Chunk{{ChunkID: "a"}}, [][]float64{{1, 2, 3}}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestStorage_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	_ = s.Init(ctx, 1)
	_ = s.Upsert(ctx, []domain.Chunk{{ChunkID: "a"}}, [][]float64{{1}})
	_ = s.Clear(ctx)
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
}
