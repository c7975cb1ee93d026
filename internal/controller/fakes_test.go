package controller

import (
	"context"
	"sync"

	"ragchat/internal/api"
	"ragchat/internal/domain"
)

type recordingView struct {
	mu        sync.Mutex
	statuses  []Status
	lists     [][]ListItem
	messages  []domain.ChatMessage
	clears    int
	scrolls   int
	scrollLen []int
}

func (v *recordingView) SetStatus(s Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, s)
}

func (v *recordingView) SetDocuments(items []ListItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lists = append(v.lists, items)
}

func (v *recordingView) Append(msg domain.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clears++
}

func (v *recordingView) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
	v.scrollLen = append(v.scrollLen, len(v.messages))
}

func (v *recordingView) snapshot() []domain.ChatMessage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.ChatMessage(nil), v.messages...)
}

type fakeIndexAPI struct {
	docs      []domain.IndexedDocument
	listErr   error
	listCalls int
	upload    *api.UploadResult
	uploadErr error
	uploaded  [][]string
}

func (f *fakeIndexAPI) ListIndexed(ctx context.Context) ([]domain.IndexedDocument, error) {
	f.listCalls++
	return f.docs, f.listErr
}

func (f *fakeIndexAPI) Upload(ctx context.Context, paths []string) (*api.UploadResult, error) {
	f.uploaded = append(f.uploaded, paths)
	return f.upload, f.uploadErr
}

type chatFunc func(ctx context.Context, message string) (*api.ChatReply, error)

func (f chatFunc) Chat(ctx context.Context, message string) (*api.ChatReply, error) {
	return f(ctx, message)
}
