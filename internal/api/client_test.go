package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ragchat/internal/domain"
)

func TestClient_ListIndexed(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
	}{
		{name: "mixed entries", body: `{"status":"ok","documents":["a.pdf",{"file":"b.pdf","chunks":5}]}`, wantCount: 2},
		{name: "empty list", body: `{"documents":[]}`, wantCount: 0},
		{name: "missing list", body: `{"status":"ok"}`, wantCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/api/indexed" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			docs, err := New(Config{BaseURL: srv.URL}).ListIndexed(context.Background())
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(docs) != tt.wantCount {
				t.Fatalf("expected %d docs, got %d", tt.wantCount, len(docs))
			}
			if tt.wantCount == 2 {
				if docs[0].Kind != domain.DocumentName || docs[0].File != "a.pdf" {
					t.Errorf("unexpected first doc %+v", docs[0])
				}
				if docs[1].Kind != domain.DocumentEntry || docs[1].Chunks == nil || *docs[1].Chunks != 5 {
					t.Errorf("unexpected second doc %+v", docs[1])
				}
			}
		})
	}
}

func TestClient_UploadRepeatedFilesField(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for name, content := range map[string]string{"one.txt": "first file", "two.md": "second file"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Errorf("expected 2 files, got %d", len(files))
		}
		for _, fh := range files {
			if fh.Filename != "one.txt" && fh.Filename != "two.md" {
				t.Errorf("unexpected filename %q", fh.Filename)
			}
		}
		io.WriteString(w, `{"status":"ok","results":[{"file":"one.txt","chunks":1,"status":"indexed"}]}`)
	}))
	defer srv.Close()

	res, err := New(Config{BaseURL: srv.URL}).Upload(context.Background(), paths)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	var results []FileResult
	if err := json.Unmarshal(res.Results, &results); err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 || results[0].Status != "indexed" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestClient_UploadMissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		io.WriteString(w, `{"results":[]}`)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Upload(context.Background(), []string{filepath.Join(t.TempDir(), "nope.txt")})
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestClient_UploadNoFiles(t *testing.T) {
	_, err := New(Config{BaseURL: "http://127.0.0.1:1"}).Upload(context.Background(), nil)
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestClient_ChatSendsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Message != "hello" || req.SessionID != "s-1" {
			t.Errorf("unexpected request %+v", req)
		}
		io.WriteString(w, `{"answer":"Result","response":"Result","images":["/x.png",{"url":"/y.png","figure_no":2,"caption":"Figure 2"}]}`)
	}))
	defer srv.Close()

	reply, err := New(Config{BaseURL: srv.URL, SessionID: "s-1"}).Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply.Answer != "Result" || len(reply.Images) != 2 {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if reply.Images[0].URL != "/x.png" || reply.Images[1].URL != "/y.png" || *reply.Images[1].Figure != 2 {
		t.Errorf("unexpected images %+v", reply.Images)
	}
}

func TestClient_GeneratesSessionID(t *testing.T) {
	a := New(Config{})
	b := New(Config{})
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Errorf("expected distinct generated session ids, got %q and %q", a.SessionID(), b.SessionID())
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"status":"error","message":"Empty question"}`)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Chat(context.Background(), "x")
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected 400 api error, got %v", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Empty question" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>oops</html>`)
	}))
	defer srv.Close()

	if _, err := New(Config{BaseURL: srv.URL}).ListIndexed(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_History(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session_id"); got != "abc" {
			t.Errorf("unexpected session %q", got)
		}
		io.WriteString(w, `{"session_id":"abc","messages":[{"role":"user","text":"hi"},{"role":"bot","text":"hello"}]}`)
	}))
	defer srv.Close()

	msgs, err := New(Config{BaseURL: srv.URL, SessionID: "abc"}).History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 2 || msgs[1].Role != domain.RoleBot {
		t.Errorf("unexpected messages %+v", msgs)
	}
}
