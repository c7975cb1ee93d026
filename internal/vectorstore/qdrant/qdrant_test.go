package qdrant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ragchat/internal/domain"
)

func TestStorage_RoundTrip(t *testing.T) {
	var upserted struct {
		Points []struct {
			ID      string         `json:"id"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		if r.Header.Get("api-key") != "k" {
			t.Errorf("missing api key header")
		}
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/docs/points":
			if err := json.NewDecoder(r.Body).Decode(&upserted); err != nil {
				t.Errorf("decode upsert: %v", err)
			}
			io.WriteString(w, `{"result":{}}`)
		case r.Method == http.MethodPost:
			io.WriteString(w, `{"result":[{"score":0.9,"payload":{"chunk_id":"d:0","file":"a.txt","text":"hello","image_url":""}}]}`)
		default:
			io.WriteString(w, `{"result":true}`)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	s := NewStorage(Config{URL: srv.URL + "/", APIKey: "k", Collection: "docs"})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear on missing collection: %v", err)
	}
	if err := s.Init(ctx, 3); err != nil {
		t.Fatalf("init: %v", err)
	}
	chunk := domain.Chunk{DocumentID: "d", ChunkID: "d:0", File: "a.txt", Text: "hello"}
	if err := s.Upsert(ctx, []domain.Chunk{chunk}, [][]float64{{1, 0, 0}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(upserted.Points) != 1 || upserted.Points[0].ID != PointID("d:0") {
		t.Errorf("unexpected upsert body %+v", upserted)
	}
	res, err := s.Search(ctx, []float64{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 || res[0].Chunk.File != "a.txt" || res[0].Score != 0.9 {
		t.Errorf("unexpected results %+v", res)
	}
	want := []string{"DELETE /collections/docs", "PUT /collections/docs", "PUT /collections/docs/points", "POST /collections/docs/points/search"}
	for i, w := range want {
		if i >= len(seen) || seen[i] != w {
			t.Fatalf("requests = %v, want %v", seen, want)
		}
	}
}

func TestPointIDStable(t *testing.T) {
	if PointID("a:1") != PointID("a:1") || PointID("a:1") == PointID("a:2") {
		t.Error("point ids must be deterministic and distinct")
	}
}

func TestStorage_InitRejectsBadDimension(t *testing.T) {
	if err := NewStorage(Config{URL: "http://127.0.0.1:1", Collection: "x"}).Init(context.Background(), 0); err == nil {
		t.Error("expected error")
	}
}
