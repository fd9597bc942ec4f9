package downloader

import (
	"testing"

	"github.com/elsanchez/social-download/internal/domain"
)

func TestNormalizeFormats(t *testing.T) {
	raw := []rawFormat{
		{FormatID: "18", Height: 360, VCodec: "avc1", ACodec: "mp4a", Ext: "mp4", Filesize: 5 * 1024 * 1024},
		{FormatID: "137", Height: 1080, VCodec: "avc1", ACodec: "none", Ext: "mp4", FilesizeApprox: 50 * 1024 * 1024},
		{FormatID: "136", Height: 720, VCodec: "avc1", ACodec: "none", Ext: "mp4"},
		{FormatID: "251", Height: 0, VCodec: "none", ACodec: "opus", Ext: "webm"}, // audio puro: se filtra
		{FormatID: "vp9-1080", Height: 1080, VCodec: "vp9", ACodec: "none", Ext: "webm"},
	}

	formats := normalizeFormats(raw)

	// best al inicio, audio al final
	if formats[0].ID != domain.FormatBest {
		t.Errorf("formats[0].ID = %q, want %q", formats[0].ID, domain.FormatBest)
	}
	if formats[len(formats)-1].ID != domain.FormatAudio {
		t.Errorf("last format ID = %q, want %q", formats[len(formats)-1].ID, domain.FormatAudio)
	}

	// 1080p deduplicado: gana el primero tras orden estable (137)
	var qualities []string
	for _, f := range formats[1 : len(formats)-1] {
		qualities = append(qualities, f.Quality)
	}
	if len(qualities) != 3 {
		t.Fatalf("expected 3 video entries, got %d (%v)", len(qualities), qualities)
	}
	if qualities[0] != "1080p" || qualities[1] != "720p" || qualities[2] != "360p" {
		t.Errorf("unexpected quality order: %v", qualities)
	}
	if formats[1].ID != "137" {
		t.Errorf("1080p entry should be format 137 (stable sort), got %q", formats[1].ID)
	}
}

func TestNormalizeFormatsNoDuplicateQualities(t *testing.T) {
	raw := []rawFormat{
		{FormatID: "a", Height: 720, VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "b", Height: 720, VCodec: "vp9", ACodec: "none"},
		{FormatID: "c", Height: 720, VCodec: "av01", ACodec: "none"},
	}

	formats := normalizeFormats(raw)

	seen := make(map[string]bool)
	for _, f := range formats {
		if f.Type != domain.MediaVideo || f.ID == domain.FormatBest {
			continue
		}
		if seen[f.Quality] {
			t.Errorf("duplicate quality label %q", f.Quality)
		}
		seen[f.Quality] = true
	}
}

func TestNormalizeFormatsCapsAtFivePlusSynthetics(t *testing.T) {
	var raw []rawFormat
	for _, h := range []int{2160, 1440, 1080, 720, 480, 360, 240, 144} {
		raw = append(raw, rawFormat{FormatID: "f", Height: h, VCodec: "avc1"})
	}

	formats := normalizeFormats(raw)

	// 5 reales + best + audio
	if len(formats) != 7 {
		t.Errorf("expected 7 formats, got %d", len(formats))
	}
}

func TestNormalizeFormatsLabels(t *testing.T) {
	raw := []rawFormat{
		{FormatID: "muxed", Height: 480, VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "vonly", Height: 360, VCodec: "avc1", ACodec: "none"},
	}

	formats := normalizeFormats(raw)

	if formats[1].Label != "Video 480p" {
		t.Errorf("muxed label = %q", formats[1].Label)
	}
	if formats[2].Label != "Video 360p (video only)" {
		t.Errorf("video-only label = %q", formats[2].Label)
	}
}

func TestNormalizeFormatsSizeLabels(t *testing.T) {
	raw := []rawFormat{
		{FormatID: "exact", Height: 1080, VCodec: "avc1", Filesize: 1048576},
		{FormatID: "approx", Height: 720, VCodec: "avc1", FilesizeApprox: 1536},
		{FormatID: "none", Height: 480, VCodec: "avc1"},
	}

	formats := normalizeFormats(raw)

	if formats[1].Size != "1.0 MB" {
		t.Errorf("exact size = %q, want 1.0 MB", formats[1].Size)
	}
	if formats[2].Size != "~1.5 KB" {
		t.Errorf("approx size = %q, want ~1.5 KB", formats[2].Size)
	}
	if formats[3].Size != "Unknown" {
		t.Errorf("missing size = %q, want Unknown", formats[3].Size)
	}
}

func TestNormalizeFormatsEmptyInput(t *testing.T) {
	formats := normalizeFormats(nil)

	// Solo sintéticos
	if len(formats) != 2 {
		t.Fatalf("expected 2 synthetic formats, got %d", len(formats))
	}
	if formats[0].ID != domain.FormatBest || formats[1].ID != domain.FormatAudio {
		t.Errorf("unexpected synthetic pair: %q, %q", formats[0].ID, formats[1].ID)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "Unknown"},
		{-1, "Unknown"},
		{512, "512.0 B"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
		{3 * 1024 * 1024 * 1024 * 1024, "3072.0 GB"}, // GB es la unidad máxima
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatFileSize(tt.bytes)
			if result != tt.expected {
				t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, result, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, ""},
		{5, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{3661, "1:01:01"},
		{7325, "2:02:05"},
		{59.9, "0:59"}, // truncar, no redondear
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatDuration(tt.seconds)
			if result != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.seconds, result, tt.expected)
			}
		})
	}
}
