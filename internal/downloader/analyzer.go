package downloader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/elsanchez/social-download/internal/domain"
)

// rawInfo es el documento que emite yt-dlp -J. Solo se leen los campos
// necesarios; el JSON real trae decenas más.
type rawInfo struct {
	Title     string      `json:"title"`
	Duration  float64     `json:"duration"`
	Thumbnail string      `json:"thumbnail"`
	Formats   []rawFormat `json:"formats"`
}

// Analyze consulta la metadata de la URL en modo JSON-dump y la normaliza
// para el usuario. Bloquea hasta que la herramienta termina: el path de
// análisis es corto y no necesita progreso.
func (y *YtDlp) Analyze(ctx context.Context, url string) (*domain.MediaInfo, error) {
	args := y.globalArgs()
	args = append(args, "-J", "--no-playlist", "--no-warnings", url)

	output, err := y.runner.Run(ctx, y.outputDir, y.binPath, args...)
	if err != nil {
		return nil, err
	}

	var info rawInfo
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp metadata: %w", err)
	}

	title := info.Title
	if title == "" {
		title = "Untitled"
	}

	return &domain.MediaInfo{
		Title:     title,
		Thumbnail: info.Thumbnail,
		Duration:  formatDuration(info.Duration),
		Formats:   normalizeFormats(info.Formats),
	}, nil
}
