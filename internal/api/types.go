package api

import (
	"encoding/json"
	"errors"

	"ragchat/internal/domain"
)

// ErrNoFiles is returned when an upload is attempted with an empty selection.
var ErrNoFiles = errors.New("no files selected")

// IndexedResponse is the body of GET /api/indexed.
type IndexedResponse struct {
	Status    string                   `json:"status,omitempty"`
	Documents []domain.IndexedDocument `json:"documents"`
}

// UploadResult is the body of POST /api/upload. Results is kept verbatim.
type UploadResult struct {
	Status  string          `json:"status,omitempty"`
	Results json.RawMessage `json:"results"`
}

// FileResult is the per-file shape the reference backend puts into Results.
type FileResult struct {
	File   string `json:"file"`
	Chunks int    `json:"chunks"`
	Status string `json:"status"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// Source is a retrieved chunk echoed back with a chat reply.
type Source struct {
	File    string  `json:"file"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// ChatReply covers both reply shapes: Response for the text variant and
// Answer plus Images for the image-aware variant.
type ChatReply struct {
	Status    string         `json:"status,omitempty"`
	Response  string         `json:"response"`
	Answer    string         `json:"answer"`
	Images    []domain.Image `json:"images,omitempty"`
	Sources   []Source       `json:"sources,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	Status    string               `json:"status,omitempty"`
	SessionID string               `json:"session_id"`
	Messages  []domain.ChatMessage `json:"messages"`
}
