package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ragchat/internal/controller"
	"ragchat/internal/domain"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	imageStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	roleStyles = map[domain.Role]lipgloss.Style{
		domain.RoleUser:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		domain.RoleBot:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		domain.RoleError: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
	roleLabels = map[domain.Role]string{
		domain.RoleUser:  "You",
		domain.RoleBot:   "Bot",
		domain.RoleError: "Error",
	}
	statusStyles = map[controller.StatusKind]lipgloss.Style{
		controller.StatusInfo:     lipgloss.NewStyle(),
		controller.StatusWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		controller.StatusProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		controller.StatusResult:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
)

// renderMessage draws one transcript block: the role label, then one line per
// image, then the text. Lines are capped at width.
func renderMessage(msg domain.ChatMessage, width int) string {
	width = max(width, 10)
	var b strings.Builder
	label := roleLabels[msg.Role]
	if label == "" {
		label = string(msg.Role)
	}
	b.WriteString(roleStyles[msg.Role].Render(label))
	if !msg.Timestamp.IsZero() {
		b.WriteString(helpStyle.Render(" " + msg.Timestamp.Format("15:04")))
	}
	b.WriteString("\n")
	if len(msg.Images) > 0 {
		for _, img := range msg.Images {
			b.WriteString(imageStyle.MaxWidth(width).Render(img.Describe()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Text))
	return b.String()
}

func renderTranscript(msgs []domain.ChatMessage, width int) string {
	if len(msgs) == 0 {
		return placeholderStyle.Render("Ask a question about your documents.")
	}
	blocks := make([]string, len(msgs))
	for i, m := range msgs {
		blocks[i] = renderMessage(m, width)
	}
	return strings.Join(blocks, "\n\n")
}

func renderDocuments(items []controller.ListItem) string {
	if len(items) == 0 {
		return placeholderStyle.Render("Loading...")
	}
	lines := make([]string, len(items))
	for i, it := range items {
		if it.Placeholder {
			lines[i] = placeholderStyle.Render(it.Text)
			continue
		}
		lines[i] = "• " + it.Text
	}
	return strings.Join(lines, "\n")
}

func renderStatus(s controller.Status) string {
	if s.Text == "" {
		return ""
	}
	return statusStyles[s.Kind].Render(s.Text)
}
