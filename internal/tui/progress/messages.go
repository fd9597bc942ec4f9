package progress

import "github.com/elsanchez/social-download/pkg/client"

// Message types for async operations

type tickMsg struct{}

type progressMsg struct {
	progress *client.Progress
	err      error
}

type cancelCompleteMsg struct {
	err error
}
