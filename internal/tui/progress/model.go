// Package progress is the Bubbletea TUI behind `sdl watch`: it polls the
// daemon for a download's progress and renders a live progress bar.
package progress

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elsanchez/social-download/pkg/client"
)

// Model is the Bubbletea model for the download watcher
type Model struct {
	// Dependencies
	client     *client.Client
	downloadID string

	// Components
	bar     progress.Model
	spinner spinner.Model

	// State
	latest    *client.Progress
	canceling bool
	quitting  bool
	err       error
	width     int
}

// NewModel creates a watcher for the given download
func NewModel(c *client.Client, downloadID string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 50

	return Model{
		client:     c,
		downloadID: downloadID,
		bar:        bar,
		spinner:    s,
	}
}

// Init starts the first poll
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollProgress(m.client, m.downloadID),
		m.spinner.Tick,
	)
}
