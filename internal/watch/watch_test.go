package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestAccepts(t *testing.T) {
	w, err := New([]string{".txt", ".PNG"}, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"created text", fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Create}, true},
		{"written image", fsnotify.Event{Name: "/d/b.png", Op: fsnotify.Write}, true},
		{"other extension", fsnotify.Event{Name: "/d/c.exe", Op: fsnotify.Create}, false},
		{"removed", fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Remove}, false},
		{"chmod only", fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: "/d/.a.txt", Op: fsnotify.Create}, false},
		{"backup", fsnotify.Event{Name: "/d/a.txt~", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.accepts(tt.event); got != tt.want {
				t.Errorf("accepts(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestBatchFlush(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	bt := newBatch()
	bt.add(b)
	bt.add(a)
	bt.add(b)
	bt.add(filepath.Join(dir, "gone.txt"))
	bt.add(dir)

	if got, want := bt.flush(), []string{a, b}; !reflect.DeepEqual(got, want) {
		t.Errorf("flush = %v, want %v", got, want)
	}
	if got := bt.flush(); len(got) != 0 {
		t.Errorf("second flush should be empty, got %v", got)
	}
}

func TestRun_CoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{".txt"}, 150*time.Millisecond)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, dir, func(_ context.Context, paths []string) { batches <- paths })
	}()
	// let Run register the directory
	time.Sleep(100 * time.Millisecond)

	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	for _, p := range []string{a, b, filepath.Join(dir, "skip.bin")} {
		if err := os.WriteFile(p, []byte("content"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-batches:
		if want := []string{a, b}; !reflect.DeepEqual(got, want) {
			t.Errorf("batch = %v, want %v", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no batch submitted")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
