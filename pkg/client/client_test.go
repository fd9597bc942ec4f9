package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeDaemon(t *testing.T) (*Client, *http.ServeMux) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return New(srv.URL), mux
}

func TestAnalyze(t *testing.T) {
	c, mux := newFakeDaemon(t)

	mux.HandleFunc("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			t.Errorf("bad analyze request: %v", err)
		}

		json.NewEncoder(w).Encode(AnalyzeResult{
			Success:  true,
			Platform: "youtube",
			Title:    "Test",
			Formats:  []FormatOption{{ID: "best"}, {ID: "audio"}},
		})
	})

	result, err := c.Analyze("https://youtube.com/watch?v=x")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Platform != "youtube" || len(result.Formats) != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestAnalyzeError(t *testing.T) {
	c, mux := newFakeDaemon(t)

	mux.HandleFunc("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "Could not analyze the URL.",
			"details": "yt-dlp failed",
		})
	})

	_, err := c.Analyze("https://example.com")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "Could not analyze the URL.: yt-dlp failed" {
		t.Errorf("error = %q", got)
	}
}

func TestStartDownload(t *testing.T) {
	c, mux := newFakeDaemon(t)

	mux.HandleFunc("/api/download", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL      string `json:"url"`
			FormatID string `json:"formatId"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.FormatID != "best" {
			t.Errorf("formatId = %q", req.FormatID)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"downloadId": "1700000000000-abcd1234",
		})
	})

	id, err := c.StartDownload("https://youtube.com/watch?v=x", "best")
	if err != nil {
		t.Fatalf("StartDownload: %v", err)
	}
	if id != "1700000000000-abcd1234" {
		t.Errorf("downloadId = %q", id)
	}
}

func TestGetProgressNotFound(t *testing.T) {
	c, mux := newFakeDaemon(t)

	mux.HandleFunc("/api/progress/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	})

	if _, err := c.GetProgress("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProgressTerminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{"initializing", false},
		{"downloading", false},
		{"converting", false},
		{"complete", true},
		{"error", true},
	}

	for _, tt := range tests {
		p := Progress{Status: tt.status}
		if got := p.Terminal(); got != tt.terminal {
			t.Errorf("Terminal(%q) = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestCancelUnknown(t *testing.T) {
	c, mux := newFakeDaemon(t)

	mux.HandleFunc("/api/cancel/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if err := c.Cancel("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	c, mux := newFakeDaemon(t)

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Stats{Success: true, Active: 1, Total: 10, Completed: 8, Failed: 2})
	})

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Active != 1 || stats.Completed != 8 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
