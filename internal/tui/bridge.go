package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"ragchat/internal/controller"
	"ragchat/internal/domain"
)

type statusMsg struct{ status controller.Status }

type documentsMsg struct{ items []controller.ListItem }

type appendMsg struct{ msg domain.ChatMessage }

type clearInputMsg struct{}

type scrollMsg struct{}

// sink is shared by every copy of the model so that the program's Send can
// be attached after the model has been handed to tea.NewProgram.
type sink struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

// bridge implements the controller views by posting messages to the program,
// since controllers run inside commands and must not touch the model.
type bridge struct {
	sink *sink
}

func (b bridge) post(msg tea.Msg) {
	b.sink.mu.RLock()
	send := b.sink.send
	b.sink.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

func (b bridge) SetStatus(s controller.Status) { b.post(statusMsg{s}) }

func (b bridge) SetDocuments(items []controller.ListItem) {
	b.post(documentsMsg{append([]controller.ListItem(nil), items...)})
}

func (b bridge) Append(msg domain.ChatMessage) { b.post(appendMsg{msg}) }

func (b bridge) ClearInput() { b.post(clearInputMsg{}) }

func (b bridge) ScrollToBottom() { b.post(scrollMsg{}) }
