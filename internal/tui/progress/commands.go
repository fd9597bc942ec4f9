package progress

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/social-download/pkg/client"
)

// pollInterval matches the browser UI polling cadence
const pollInterval = 500 * time.Millisecond

// Async commands that return tea.Msg

func pollProgress(c *client.Client, downloadID string) tea.Cmd {
	return func() tea.Msg {
		p, err := c.GetProgress(downloadID)
		return progressMsg{progress: p, err: err}
	}
}

func scheduleNextPoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func cancelDownload(c *client.Client, downloadID string) tea.Cmd {
	return func() tea.Msg {
		return cancelCompleteMsg{err: c.Cancel(downloadID)}
	}
}
