package chunker

import (
	"testing"

	"ragchat/internal/domain"
)

func TestSentenceChunker_Windows(t *testing.T) {
	c := NewSentenceChunker(2, 1)
	doc := domain.Document{ID: "d1", Name: "notes.txt", Content: "One. Two. Three. Four."}
	chunks, err := c.Chunk(doc)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	want := []string{"One. Two.", "Two. Three.", "Three. Four."}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i].Text != w {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i].Text, w)
		}
		if chunks[i].Index != i || chunks[i].File != "notes.txt" || chunks[i].DocumentID != "d1" {
			t.Errorf("chunk %d has wrong metadata %+v", i, chunks[i])
		}
	}
	if chunks[1].ChunkID != "d1:1" {
		t.Errorf("unexpected chunk id %q", chunks[1].ChunkID)
	}
}

func TestSentenceChunker_Empty(t *testing.T) {
	chunks, err := NewSentenceChunker(5, 1).Chunk(domain.Document{ID: "d", Content: "  \n "})
	if err != nil || len(chunks) != 0 {
		t.Errorf("expected no chunks, got %+v, %v", chunks, err)
	}
}

func TestSentenceChunker_OverlapClamped(t *testing.T) {
	c := NewSentenceChunker(2, 5)
	chunks, err := c.Chunk(domain.Document{ID: "d", Content: "A. B. C. D."})
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks with overlap clamped to 1, got %d", len(chunks))
	}
}

func TestSentenceChunker_Image(t *testing.T) {
	doc := domain.Document{ID: "img", Name: "figure.png", Content: "figure revenue chart", ImageURL: "/uploads/figure.png"}
	chunks, err := NewSentenceChunker(5, 1).Chunk(doc)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if len(chunks) != 1 || chunks[0].ImageURL != "/uploads/figure.png" || chunks[0].Text != "figure revenue chart" {
		t.Errorf("unexpected image chunk %+v", chunks)
	}
}
