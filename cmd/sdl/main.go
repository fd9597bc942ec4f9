package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	progresstui "github.com/elsanchez/social-download/internal/tui/progress"
	"github.com/elsanchez/social-download/pkg/client"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "sdl",
		Usage:   "download social media videos through the social-downloadd daemon",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "daemon base URL",
				Value:   client.DefaultBaseURL,
				EnvVars: []string{"SDL_SERVER"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "list the available formats for a URL",
				ArgsUsage: "<url>",
				Action:    handleAnalyze,
			},
			{
				Name:      "get",
				Usage:     "start a server-side download",
				ArgsUsage: "<url> [formatId]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "follow the download progress",
					},
				},
				Action: handleGet,
			},
			{
				Name:      "status",
				Usage:     "print a download's current state",
				ArgsUsage: "<downloadId>",
				Action:    handleStatus,
			},
			{
				Name:      "watch",
				Usage:     "follow a download with a live progress bar",
				ArgsUsage: "<downloadId>",
				Action:    handleWatch,
			},
			{
				Name:      "cancel",
				Usage:     "abort a running download",
				ArgsUsage: "<downloadId>",
				Action:    handleCancel,
			},
			{
				Name:   "history",
				Usage:  "list finished files on the server",
				Action: handleHistory,
			},
			{
				Name:   "stats",
				Usage:  "show daemon statistics",
				Action: handleStats,
			},
			{
				Name:  "version",
				Usage: "print the client version",
				Action: func(c *cli.Context) error {
					fmt.Printf("sdl v%s\n", version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String("server"))
}

func requireArg(c *cli.Context, name string) (string, error) {
	arg := c.Args().First()
	if arg == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return arg, nil
}

func handleAnalyze(c *cli.Context) error {
	url, err := requireArg(c, "url")
	if err != nil {
		return err
	}

	result, err := newClient(c).Analyze(url)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", result.PlatformIcon, result.PlatformName)
	fmt.Printf("Title:    %s\n", result.Title)
	if result.Duration != "" {
		fmt.Printf("Duration: %s\n", result.Duration)
	}
	fmt.Println("\nFormats:")
	for _, f := range result.Formats {
		size := f.Size
		if size == "" {
			size = "Unknown"
		}
		fmt.Printf("  %-8s %-36s %s\n", f.ID, f.Label, size)
	}
	fmt.Println("\nStart with: sdl get <url> <formatId>")
	return nil
}

func handleGet(c *cli.Context) error {
	url, err := requireArg(c, "url")
	if err != nil {
		return err
	}

	formatID := c.Args().Get(1)
	if formatID == "" {
		formatID = "best"
	}

	cl := newClient(c)
	downloadID, err := cl.StartDownload(url, formatID)
	if err != nil {
		return err
	}

	fmt.Printf("Download started: %s\n", downloadID)

	if c.Bool("watch") {
		return watch(cl, downloadID)
	}

	fmt.Printf("Follow with: sdl watch %s\n", downloadID)
	return nil
}

func handleStatus(c *cli.Context) error {
	id, err := requireArg(c, "downloadId")
	if err != nil {
		return err
	}

	p, err := newClient(c).GetProgress(id)
	if err != nil {
		return err
	}

	fmt.Printf("Status:   %s\n", p.Status)
	fmt.Printf("Progress: %.1f%%\n", p.Progress)
	if p.Speed != "" {
		fmt.Printf("Speed:    %s (ETA %s)\n", p.Speed, p.ETA)
	}
	if p.Filename != "" {
		fmt.Printf("File:     %s (%s)\n", p.Filename, p.Size)
		fmt.Printf("URL:      %s\n", p.DownloadURL)
	}
	if p.Error != "" {
		fmt.Printf("Error:    %s\n", p.Error)
	}
	return nil
}

func handleWatch(c *cli.Context) error {
	id, err := requireArg(c, "downloadId")
	if err != nil {
		return err
	}
	return watch(newClient(c), id)
}

func watch(cl *client.Client, downloadID string) error {
	final, err := tea.NewProgram(progresstui.NewModel(cl, downloadID)).Run()
	if err != nil {
		return fmt.Errorf("run watcher: %w", err)
	}

	m, ok := final.(progresstui.Model)
	if !ok {
		return nil
	}
	if err := m.Err(); err != nil {
		return err
	}
	if p := m.Result(); p != nil && p.Status == "error" {
		return errors.New(p.Error)
	}
	return nil
}

func handleCancel(c *cli.Context) error {
	id, err := requireArg(c, "downloadId")
	if err != nil {
		return err
	}

	if err := newClient(c).Cancel(id); err != nil {
		return err
	}
	fmt.Println("Download canceled")
	return nil
}

func handleHistory(c *cli.Context) error {
	files, err := newClient(c).History()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("No finished downloads on the server")
		return nil
	}

	for _, f := range files {
		fmt.Printf("%s  %-10s %s\n", f.Date.Format("2006-01-02 15:04"), f.Size, f.Name)
	}
	return nil
}

func handleStats(c *cli.Context) error {
	stats, err := newClient(c).Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Active:    %d\n", stats.Active)
	fmt.Printf("Total:     %d\n", stats.Total)
	fmt.Printf("Completed: %d\n", stats.Completed)
	fmt.Printf("Failed:    %d\n", stats.Failed)
	if stats.BytesDownloaded > 0 {
		fmt.Printf("Data:      %s\n", stats.SizeLabel)
	}
	return nil
}
