package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles with adaptive colors for light/dark backgrounds
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"}).
			MarginLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"})

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "9"}).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "34", Dark: "10"}).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "63", Dark: "205"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "241", Dark: "241"})
)

// statusLabels maps job states to display text
var statusLabels = map[string]string{
	"initializing": "Initializing...",
	"downloading":  "Downloading",
	"converting":   "Converting",
	"complete":     "Complete",
	"error":        "Failed",
}

// View renders the watcher
func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("⬇ Download "+m.downloadID) + "\n\n")

	if m.latest == nil {
		content.WriteString("  " + m.spinner.View() + " Connecting...\n")
		return content.String()
	}

	p := m.latest

	switch p.Status {
	case "complete":
		content.WriteString("  " + successStyle.Render("✓ "+p.Filename) + "\n")
		if p.Size != "" {
			content.WriteString(labelStyle.Render("  Size: "+p.Size) + "\n")
		}
		if p.DownloadURL != "" {
			content.WriteString(labelStyle.Render("  URL:  "+p.DownloadURL) + "\n")
		}

	case "error":
		content.WriteString("  " + errorStyle.Render("✗ "+p.Error) + "\n")

	default:
		label := statusLabels[p.Status]
		if label == "" {
			label = p.Status
		}
		if m.canceling {
			label = "Canceling..."
		}

		content.WriteString("  " + m.spinner.View() + " " + label + "\n\n")
		content.WriteString("  " + m.bar.ViewAs(p.Progress/100) + "\n\n")

		var details []string
		if p.Downloaded != "" && p.Total != "" {
			details = append(details, fmt.Sprintf("%s of %s", p.Downloaded, p.Total))
		}
		if p.Speed != "" {
			details = append(details, p.Speed)
		}
		if p.ETA != "" {
			details = append(details, "ETA "+p.ETA)
		}
		if len(details) > 0 {
			content.WriteString(labelStyle.Render("  "+strings.Join(details, " · ")) + "\n")
		}

		content.WriteString("\n" + helpStyle.Render("  c: cancel · q: quit") + "\n")
	}

	return content.String()
}
