package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"ragchat/internal/domain"
)

// transcript serializes append+scroll pairs so concurrent sends never interleave them.
type transcript struct {
	mu   sync.Mutex
	view TranscriptView
	now  func() time.Time
}

func (t *transcript) append(msg domain.ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg.Timestamp = t.now()
	t.view.Append(msg)
	t.view.ScrollToBottom()
}

// begin appends the optimistic user entry and clears the input.
// It returns false for blank input.
func (t *transcript) begin(input string) bool {
	if strings.TrimSpace(input) == "" {
		return false
	}
	t.append(domain.ChatMessage{Role: domain.RoleUser, Text: input})
	t.view.ClearInput()
	return true
}

// TextChat is the plain text chat panel controller.
type TextChat struct {
	api ChatAPI
	t   *transcript
}

func NewTextChat(api ChatAPI, view TranscriptView) *TextChat {
	return &TextChat{api: api, t: &transcript{view: view, now: time.Now}}
}

// Send appends the user message, waits for the reply and appends either the
// bot reply or an error entry. Blank input is ignored and Send returns false.
func (c *TextChat) Send(ctx context.Context, input string) bool {
	if !c.t.begin(input) {
		return false
	}
	reply, err := c.api.Chat(ctx, input)
	if err != nil {
		c.t.append(domain.ChatMessage{Role: domain.RoleError, Text: "Error: " + err.Error()})
		return true
	}
	c.t.append(domain.ChatMessage{Role: domain.RoleBot, Text: reply.Response})
	return true
}

// ImageChat is the chat panel controller that renders referenced images.
type ImageChat struct {
	api ChatAPI
	t   *transcript
}

func NewImageChat(api ChatAPI, view TranscriptView) *ImageChat {
	return &ImageChat{api: api, t: &transcript{view: view, now: time.Now}}
}

// Send behaves like TextChat.Send except that a failed request is returned to
// the caller instead of being rendered.
func (c *ImageChat) Send(ctx context.Context, input string) (bool, error) {
	if !c.t.begin(input) {
		return false, nil
	}
	reply, err := c.api.Chat(ctx, input)
	if err != nil {
		return true, err
	}
	c.t.append(domain.ChatMessage{Role: domain.RoleBot, Text: reply.Answer, Images: reply.Images})
	return true, nil
}
