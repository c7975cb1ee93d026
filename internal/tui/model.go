package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragchat/internal/config"
	"ragchat/internal/controller"
	"ragchat/internal/domain"
)

// Options configures the terminal UI.
type Options struct {
	Index controller.IndexAPI
	Chat  controller.ChatAPI
	// Variant is config.VariantText or config.VariantImage.
	Variant string
	// Server is shown in the header.
	Server string
}

type pane int

const (
	paneChat pane = iota
	paneDocs
)

// sendFunc covers both chat controllers.
type sendFunc func(ctx context.Context, input string) (bool, error)

type uploadDoneMsg struct{ err error }

type refreshDoneMsg struct{ err error }

type sendDoneMsg struct {
	sent bool
	err  error
}

// Model is the Bubble Tea model with a chat pane and a documents pane.
type Model struct {
	ctx     context.Context
	docs    *controller.DocumentList
	send    sendFunc
	bridge  bridge
	variant string
	server  string

	pane       pane
	paths      textinput.Model
	input      textarea.Model
	transcript viewport.Model
	spinner    spinner.Model

	status   controller.Status
	items    []controller.ListItem
	messages []domain.ChatMessage
	inflight int
	err      error
	ready    bool
}

// New creates the model. Connect must be called with the program's Send
// before the program runs.
func New(ctx context.Context, opts Options) Model {
	b := bridge{sink: &sink{}}

	var send sendFunc
	if opts.Variant == config.VariantText {
		tc := controller.NewTextChat(opts.Chat, b)
		send = func(ctx context.Context, input string) (bool, error) {
			return tc.Send(ctx, input), nil
		}
	} else {
		send = controller.NewImageChat(opts.Chat, b).Send
	}

	ti := textinput.New()
	ti.Prompt = "files> "
	ti.Placeholder = "paths or globs, e.g. ~/papers/*.pdf notes.md"
	ti.CharLimit = 0

	ta := textarea.New()
	ta.Placeholder = "Ask something. Enter sends, Alt+Enter adds a line."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "shift+enter", "ctrl+j"))
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(0, 0)

	return Model{
		ctx:        ctx,
		docs:       controller.NewDocumentList(opts.Index, b),
		send:       send,
		bridge:     b,
		variant:    opts.Variant,
		server:     opts.Server,
		pane:       paneChat,
		paths:      ti,
		input:      ta,
		transcript: vp,
		spinner:    sp,
	}
}

// Connect routes controller view updates into the running program.
func (m Model) Connect(send func(tea.Msg)) {
	m.bridge.sink.mu.Lock()
	m.bridge.sink.send = send
	m.bridge.sink.mu.Unlock()
}

// Init loads the document list and starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.refresh())
}

// Update handles key, window and controller events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit
		case "tab", "shift+tab":
			return m, m.togglePane()
		case "ctrl+r":
			return m, m.refresh()
		case "esc":
			m.err = nil
			return m, nil
		case "enter":
			if m.pane == paneDocs {
				paths := expandPaths(m.paths.Value())
				m.paths.Reset()
				return m, m.upload(paths)
			}
			return m.submit()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}

	case statusMsg:
		m.status = msg.status
		return m, nil
	case documentsMsg:
		m.items = msg.items
		return m, nil
	case appendMsg:
		m.messages = append(m.messages, msg.msg)
		m.transcript.SetContent(renderTranscript(m.messages, m.transcript.Width))
		return m, nil
	case clearInputMsg:
		m.input.Reset()
		return m, nil
	case scrollMsg:
		m.transcript.GotoBottom()
		return m, nil

	case uploadDoneMsg:
		m.fail("upload", msg.err)
		return m, nil
	case refreshDoneMsg:
		m.fail("refresh", msg.err)
		return m, nil
	case sendDoneMsg:
		m.inflight = max(0, m.inflight-1)
		m.fail("chat", msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.inflight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.pane == paneDocs {
		m.paths, cmd = m.paths.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// submit hands the input to the chat controller in its own command, so a
// pending reply never blocks the next send.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.input.Reset()
	m.inflight++
	ctx, send := m.ctx, m.send
	cmds := []tea.Cmd{func() tea.Msg {
		sent, err := send(ctx, text)
		return sendDoneMsg{sent: sent, err: err}
	}}
	if m.inflight == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) upload(paths []string) tea.Cmd {
	ctx, docs := m.ctx, m.docs
	return func() tea.Msg {
		return uploadDoneMsg{err: docs.SubmitUpload(ctx, paths)}
	}
}

func (m Model) refresh() tea.Cmd {
	ctx, docs := m.ctx, m.docs
	return func() tea.Msg {
		return refreshDoneMsg{err: docs.Refresh(ctx)}
	}
}

func (m *Model) togglePane() tea.Cmd {
	if m.pane == paneChat {
		m.pane = paneDocs
		m.input.Blur()
		return m.paths.Focus()
	}
	m.pane = paneChat
	m.paths.Blur()
	return m.input.Focus()
}

// fail is the host-level handler for errors the controllers return.
func (m *Model) fail(op string, err error) {
	if err == nil {
		return
	}
	log.Printf("%s failed: %v", op, err)
	m.err = fmt.Errorf("%s: %w", op, err)
}

func (m *Model) resize(width, height int) {
	boxW, boxH := boxStyle.GetFrameSize()
	inner := max(20, width-boxW)
	m.input.SetWidth(inner)
	m.paths.Width = inner - len(m.paths.Prompt) - 1
	// header, tabs, input box, footer
	reserved := 2 + m.input.Height() + boxH + 1
	m.transcript.Width = inner
	m.transcript.Height = max(3, height-reserved-boxH)
	m.transcript.SetContent(renderTranscript(m.messages, inner))
	m.transcript.GotoBottom()
}

// View renders the header, the active pane and the footer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("RAG Chat") + helpStyle.Render("  "+m.server+"  ["+m.variant+"]")
	chatTab, docsTab := activeTabStyle.Render("Chat"), tabStyle.Render("Documents")
	if m.pane == paneDocs {
		chatTab, docsTab = tabStyle.Render("Chat"), activeTabStyle.Render("Documents")
	}
	tabs := chatTab + "  " + docsTab

	var body string
	if m.pane == paneDocs {
		body = lipgloss.JoinVertical(lipgloss.Left,
			boxStyle.Render(m.paths.View()),
			renderStatus(m.status),
			renderDocuments(m.items),
		)
	} else {
		body = boxStyle.Render(m.transcript.View()) + "\n" + boxStyle.Render(m.input.View())
	}
	return header + "\n" + tabs + "\n" + body + "\n" + m.footer()
}

func (m Model) footer() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + helpStyle.Render("  (esc to dismiss)")
	}
	if m.inflight > 0 {
		return m.spinner.View() + helpStyle.Render(fmt.Sprintf(" waiting for %d repl%s", m.inflight, plural(m.inflight)))
	}
	return helpStyle.Render("tab: switch pane • enter: send • alt+enter: new line • ctrl+r: refresh • ctrl+c: quit")
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
