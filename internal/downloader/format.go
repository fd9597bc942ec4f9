package downloader

import (
	"fmt"
	"sort"

	"github.com/elsanchez/social-download/internal/domain"
)

// maxVideoFormats limita cuántas calidades reales se ofrecen al usuario
const maxVideoFormats = 5

// rawFormat es una entrada de la lista "formats" del JSON de yt-dlp
type rawFormat struct {
	FormatID       string  `json:"format_id"`
	Height         int     `json:"height"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Ext            string  `json:"ext"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox float64 `json:"filesize_approx"`
}

// normalizeFormats convierte los formatos crudos de la herramienta en la
// lista deduplicada que ve el usuario: hasta 5 calidades de video reales,
// con "best" sintético al inicio y "audio" sintético al final.
func normalizeFormats(raw []rawFormat) []domain.FormatOption {
	formats := make([]domain.FormatOption, 0, maxVideoFormats+2)

	// Filtrar solo formatos de video con altura conocida
	videoFormats := make([]rawFormat, 0, len(raw))
	for _, f := range raw {
		if f.VCodec != "" && f.VCodec != "none" && f.Height > 0 {
			videoFormats = append(videoFormats, f)
		}
	}

	// Algunos sitios reportan formatos en orden raro: ordenar por altura
	// descendente. El sort debe ser estable para respetar el orden nativo
	// de la herramienta en empates.
	sort.SliceStable(videoFormats, func(i, j int) bool {
		return videoFormats[i].Height > videoFormats[j].Height
	})

	formats = append(formats, domain.FormatOption{
		ID:       domain.FormatBest,
		Label:    "🏆 Best Quality (Video + Audio)",
		Type:     domain.MediaVideo,
		Quality:  "Best",
		Size:     "Auto",
		Ext:      "mp4",
		HasAudio: true,
	})

	seenQualities := make(map[string]bool)
	emitted := 0

	for _, f := range videoFormats {
		quality := fmt.Sprintf("%dp", f.Height)
		if seenQualities[quality] {
			continue
		}
		seenQualities[quality] = true

		hasAudio := f.ACodec != "" && f.ACodec != "none"
		label := "Video " + quality
		if !hasAudio {
			label += " (video only)"
		}

		var size string
		switch {
		case f.Filesize > 0:
			size = FormatFileSize(f.Filesize)
		case f.FilesizeApprox > 0:
			size = "~" + FormatFileSize(int64(f.FilesizeApprox))
		default:
			size = "Unknown"
		}

		ext := f.Ext
		if ext == "" {
			ext = "mp4"
		}

		formats = append(formats, domain.FormatOption{
			ID:       f.FormatID,
			Label:    label,
			Type:     domain.MediaVideo,
			Quality:  quality,
			Size:     size,
			Ext:      ext,
			HasAudio: hasAudio,
		})

		emitted++
		if emitted >= maxVideoFormats {
			break
		}
	}

	formats = append(formats, domain.FormatOption{
		ID:       domain.FormatAudio,
		Label:    "🎵 Audio Only (MP3)",
		Type:     domain.MediaAudio,
		Quality:  "Best Audio",
		Size:     "Auto",
		Ext:      "mp3",
		HasAudio: true,
	})

	return formats
}

// FormatFileSize formatea bytes como string legible (una decimal)
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "Unknown"
	}

	units := []string{"B", "KB", "MB", "GB"}
	value := float64(bytes)
	i := 0

	for value >= 1024 && i < len(units)-1 {
		value /= 1024
		i++
	}

	return fmt.Sprintf("%.1f %s", value, units[i])
}

// formatDuration renderiza segundos como H:MM:SS, o M:SS si dura menos de
// una hora
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}

	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
