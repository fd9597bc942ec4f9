// Package client es el cliente Go del API HTTP del daemon. Lo usan el CLI
// sdl y cualquier integración externa.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL es donde escucha el daemon por defecto
const DefaultBaseURL = "http://localhost:3000"

// ErrNotFound indica un downloadId desconocido o ya expirado
var ErrNotFound = errors.New("download not found")

// Client representa un cliente del daemon
type Client struct {
	baseURL string
	http    *http.Client
}

// New crea un cliente con base URL personalizada
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// El análisis espera a yt-dlp, puede tomar un buen rato
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

// NewDefault crea un cliente apuntando al daemon local
func NewDefault() *Client {
	return New(DefaultBaseURL)
}

// FormatOption es una opción de descarga ofrecida al usuario
type FormatOption struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Quality  string `json:"quality"`
	Size     string `json:"size"`
	Ext      string `json:"ext"`
	HasAudio bool   `json:"hasAudio"`
}

// AnalyzeResult es la respuesta de POST /api/analyze
type AnalyzeResult struct {
	Success       bool           `json:"success"`
	Platform      string         `json:"platform"`
	PlatformName  string         `json:"platformName"`
	PlatformIcon  string         `json:"platformIcon"`
	PlatformColor string         `json:"platformColor"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	Thumbnail     string         `json:"thumbnail"`
	Duration      string         `json:"duration"`
	Formats       []FormatOption `json:"formats"`
}

// Progress es la respuesta de GET /api/progress/{downloadId}
type Progress struct {
	Success     bool    `json:"success"`
	ID          string  `json:"id"`
	Progress    float64 `json:"progress"`
	Status      string  `json:"status"`
	Speed       string  `json:"speed"`
	ETA         string  `json:"eta"`
	Downloaded  string  `json:"downloaded"`
	Total       string  `json:"total"`
	Filename    string  `json:"filename"`
	DownloadURL string  `json:"downloadUrl"`
	Size        string  `json:"size"`
	Error       string  `json:"error"`
}

// Terminal retorna true si el trabajo llegó a un estado final
func (p *Progress) Terminal() bool {
	return p.Status == "complete" || p.Status == "error"
}

// HistoryFile es un archivo terminado listado por /api/history
type HistoryFile struct {
	Name        string    `json:"name"`
	Size        string    `json:"size"`
	Date        time.Time `json:"date"`
	DownloadURL string    `json:"downloadUrl"`
}

// Stats es la respuesta de GET /api/stats
type Stats struct {
	Success         bool   `json:"success"`
	Active          int    `json:"active"`
	Total           int    `json:"total"`
	Completed       int    `json:"completed"`
	Failed          int    `json:"failed"`
	BytesDownloaded int64  `json:"bytesDownloaded"`
	SizeLabel       string `json:"sizeLabel"`
}

// Analyze consulta plataforma, metadata y formatos disponibles de una URL
func (c *Client) Analyze(url string) (*AnalyzeResult, error) {
	var result AnalyzeResult
	if err := c.post("/api/analyze", map[string]string{"url": url}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartDownload arranca una descarga en el servidor y retorna el downloadId
func (c *Client) StartDownload(url, formatID string) (string, error) {
	var result struct {
		DownloadID string `json:"downloadId"`
	}
	err := c.post("/api/download", map[string]string{
		"url":      url,
		"formatId": formatID,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.DownloadID, nil
}

// GetProgress consulta el estado de un trabajo. Retorna ErrNotFound para
// IDs desconocidos o expirados.
func (c *Client) GetProgress(downloadID string) (*Progress, error) {
	var result Progress
	if err := c.get("/api/progress/"+downloadID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Cancel aborta un trabajo en curso
func (c *Client) Cancel(downloadID string) error {
	var result struct {
		Success bool `json:"success"`
	}
	return c.post("/api/cancel/"+downloadID, nil, &result)
}

// History lista los archivos terminados en el servidor
func (c *Client) History() ([]HistoryFile, error) {
	var result struct {
		Files []HistoryFile `json:"files"`
	}
	if err := c.get("/api/history", &result); err != nil {
		return nil, err
	}
	return result.Files, nil
}

// Stats consulta las estadísticas del daemon
func (c *Client) Stats() (*Stats, error) {
	var result Stats
	if err := c.get("/api/stats", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("connect to daemon: %w (is daemon running?)", err)
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w (is daemon running?)", err)
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
			return fmt.Errorf("daemon returned status %d", resp.StatusCode)
		}
		if body.Details != "" {
			return fmt.Errorf("%s: %s", body.Error, body.Details)
		}
		return errors.New(body.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
