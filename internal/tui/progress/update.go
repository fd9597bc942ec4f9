package progress

import (
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/social-download/pkg/client"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "c":
			if m.latest != nil && !m.latest.Terminal() && !m.canceling {
				m.canceling = true
				return m, cancelDownload(m.client, m.downloadID)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		barWidth := msg.Width - 10
		if barWidth > 60 {
			barWidth = 60
		}
		if barWidth > 0 {
			m.bar.Width = barWidth
		}
		return m, nil

	case tickMsg:
		return m, pollProgress(m.client, m.downloadID)

	case progressMsg:
		if msg.err != nil {
			// An expired ID after completion is not an error worth showing
			if errors.Is(msg.err, client.ErrNotFound) && m.latest != nil && m.latest.Terminal() {
				return m, tea.Quit
			}
			m.err = msg.err
			return m, tea.Quit
		}

		m.latest = msg.progress
		if m.latest.Terminal() {
			return m, tea.Quit
		}
		return m, scheduleNextPoll()

	case cancelCompleteMsg:
		if msg.err != nil {
			m.canceling = false
			m.err = msg.err
			return m, nil
		}
		// The next poll reports the terminal canceled state
		return m, pollProgress(m.client, m.downloadID)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Err returns the error that ended the watch, if any
func (m Model) Err() error {
	return m.err
}

// Result returns the last progress snapshot seen
func (m Model) Result() *client.Progress {
	return m.latest
}
