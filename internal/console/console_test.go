package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"ragchat/internal/controller"
	"ragchat/internal/domain"
)

func plain(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestView_Documents(t *testing.T) {
	plain(t)
	var out bytes.Buffer
	v := NewView(&out)
	v.SetStatus(controller.Status{Kind: controller.StatusWarning, Text: controller.NoFilesWarning})
	v.SetDocuments([]controller.ListItem{{Text: controller.PlaceholderText, Placeholder: true}})
	v.SetDocuments([]controller.ListItem{{Text: "a.pdf (3 chunks)"}})

	want := controller.NoFilesWarning + "\n" +
		"Indexed documents:\n  " + controller.PlaceholderText + "\n" +
		"Indexed documents:\n  - a.pdf (3 chunks)\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestView_ImagesBeforeText(t *testing.T) {
	plain(t)
	var out bytes.Buffer
	fig, page := 2, 7
	NewView(&out).Append(domain.ChatMessage{
		Role: domain.RoleBot,
		Text: "See figure 2.",
		Images: []domain.Image{
			{URL: "/uploads/a.png", Figure: &fig, Page: &page, Caption: "Latency"},
			{URL: "/uploads/b.png"},
		},
	})
	want := "Bot: \n  [image] /uploads/a.png (fig. 2, p. 7, Latency)\n  [image] /uploads/b.png\nSee figure 2.\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestLoop(t *testing.T) {
	plain(t)
	var out bytes.Buffer
	v := NewView(&out)
	var sent []string
	err := v.Loop(context.Background(), strings.NewReader("hello\nbad\nexit\nnever\n"), func(_ context.Context, in string) error {
		sent = append(sent, in)
		if in == "bad" {
			return errors.New("boom")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("loop: %v", err)
	}
	if len(sent) != 2 || sent[0] != "hello" || sent[1] != "bad" {
		t.Errorf("unexpected sends %v", sent)
	}
	if !strings.Contains(out.String(), "Error: boom") {
		t.Errorf("send error not printed: %q", out.String())
	}
}
