// Package controller holds the page controllers of the chat client. Each one
// receives its API collaborator and its view bundle at construction, so it can
// be driven by the terminal UI, the console front-end or a test double.
package controller

import (
	"context"

	"ragchat/internal/api"
	"ragchat/internal/domain"
)

// StatusKind classifies the text shown in a status line.
type StatusKind string

const (
	StatusInfo     StatusKind = "info"
	StatusWarning  StatusKind = "warning"
	StatusProgress StatusKind = "progress"
	StatusResult   StatusKind = "result"
)

// Status replaces the whole status line.
type Status struct {
	Kind StatusKind
	Text string
}

// ListItem is one line of the document list.
type ListItem struct {
	Text        string
	Placeholder bool
}

// DocumentListView is the status line plus the document list region.
type DocumentListView interface {
	SetStatus(Status)
	SetDocuments(items []ListItem)
}

// TranscriptView is the message input plus the scrollable transcript.
type TranscriptView interface {
	Append(msg domain.ChatMessage)
	ClearInput()
	ScrollToBottom()
}

// IndexAPI is the part of the server API used by DocumentList.
type IndexAPI interface {
	ListIndexed(ctx context.Context) ([]domain.IndexedDocument, error)
	Upload(ctx context.Context, paths []string) (*api.UploadResult, error)
}

// ChatAPI is the part of the server API used by the chat controllers.
type ChatAPI interface {
	Chat(ctx context.Context, message string) (*api.ChatReply, error)
}
