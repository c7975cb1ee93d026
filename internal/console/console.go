// Package console renders the page controllers as plain line output, for the
// one-shot CLI commands and the folder watcher.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"ragchat/internal/controller"
	"ragchat/internal/domain"
)

var (
	userStyle     = color.New(color.FgGreen, color.Bold)
	botStyle      = color.New(color.FgCyan, color.Bold)
	errorStyle    = color.New(color.FgRed, color.Bold)
	warningStyle  = color.New(color.FgYellow)
	progressStyle = color.New(color.FgBlue)
	faintStyle    = color.New(color.Faint)
)

// View implements both controller view bundles over a writer.
type View struct {
	mu  sync.Mutex
	out io.Writer
}

func NewView(out io.Writer) *View {
	return &View{out: out}
}

func (v *View) SetStatus(s controller.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch s.Kind {
	case controller.StatusWarning:
		warningStyle.Fprintln(v.out, s.Text)
	case controller.StatusProgress:
		progressStyle.Fprintln(v.out, s.Text)
	default:
		fmt.Fprintln(v.out, s.Text)
	}
}

func (v *View) SetDocuments(items []controller.ListItem) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, "Indexed documents:")
	for _, it := range items {
		if it.Placeholder {
			faintStyle.Fprintf(v.out, "  %s\n", it.Text)
			continue
		}
		fmt.Fprintf(v.out, "  - %s\n", it.Text)
	}
}

// Append prints a transcript entry. Image references come before the text.
func (v *View) Append(msg domain.ChatMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch msg.Role {
	case domain.RoleUser:
		userStyle.Fprint(v.out, "You: ")
	case domain.RoleError:
		errorStyle.Fprintln(v.out, msg.Text)
		return
	default:
		botStyle.Fprint(v.out, "Bot: ")
	}
	if len(msg.Images) > 0 {
		fmt.Fprintln(v.out)
		for _, img := range msg.Images {
			fmt.Fprintf(v.out, "  %s\n", img.Describe())
		}
	}
	fmt.Fprintln(v.out, msg.Text)
}

// ClearInput is a no-op: console input is consumed as it is read.
func (v *View) ClearInput() {}

// ScrollToBottom is a no-op: output always ends at the latest entry.
func (v *View) ScrollToBottom() {}

// Error prints err in the error style.
func (v *View) Error(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	errorStyle.Fprintf(v.out, "Error: %v\n", err)
}

// SendFunc submits one line of chat input.
type SendFunc func(ctx context.Context, input string) error

// Loop reads chat input line by line until EOF, "exit" or ctx is done.
// A send error is printed and the loop continues.
func (v *View) Loop(ctx context.Context, in io.Reader, send SendFunc) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.mu.Lock()
		userStyle.Fprint(v.out, "> ")
		v.mu.Unlock()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "exit") {
			return nil
		}
		if err := send(ctx, line); err != nil {
			v.Error(err)
		}
	}
}
