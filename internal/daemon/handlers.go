package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	pz "github.com/weberc2/httpeasy"

	"github.com/elsanchez/social-download/internal/domain"
	"github.com/elsanchez/social-download/internal/downloader"
	"github.com/elsanchez/social-download/internal/repository"
)

// historyLimit es cuántos archivos recientes lista /api/history
const historyLimit = 20

// Analyzer consulta la metadata de una URL
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*domain.MediaInfo, error)
}

// Downloader arranca y cancela descargas en background
type Downloader interface {
	StartDownload(url, formatID string) (string, error)
	Cancel(jobID string) bool
}

// ProgressSource expone snapshots de los trabajos en curso
type ProgressSource interface {
	Get(id string) (domain.DownloadJob, bool)
	ActiveCount() int
}

// Handlers implementa los endpoints /api del daemon
type Handlers struct {
	Analyzer     Analyzer
	Downloader   Downloader
	Progress     ProgressSource
	History      repository.DownloadRepository // opcional
	DownloadsDir string
}

// NewHandlers crea el conjunto de handlers
func NewHandlers(
	analyzer Analyzer,
	dl Downloader,
	progress ProgressSource,
	history repository.DownloadRepository,
	downloadsDir string,
) *Handlers {
	return &Handlers{
		Analyzer:     analyzer,
		Downloader:   dl,
		Progress:     progress,
		History:      history,
		DownloadsDir: downloadsDir,
	}
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// e envuelve un error para el log estructurado de httpeasy
type e struct {
	err error
}

func (e e) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct{ Err string }{e.err.Error()})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	Success       bool                  `json:"success"`
	Platform      string                `json:"platform"`
	PlatformName  string                `json:"platformName"`
	PlatformIcon  string                `json:"platformIcon"`
	PlatformColor string                `json:"platformColor"`
	URL           string                `json:"url"`
	Title         string                `json:"title"`
	Thumbnail     string                `json:"thumbnail"`
	Duration      string                `json:"duration"`
	Formats       []domain.FormatOption `json:"formats"`
}

// Analyze maneja POST /api/analyze. La validación ocurre antes de lanzar
// cualquier subproceso.
func (h *Handlers) Analyze(r pz.Request) pz.Response {
	var req analyzeRequest
	if err := r.JSON(&req); err != nil {
		return pz.BadRequest(pz.JSON(errorBody{Error: "invalid JSON body"}), e{err})
	}
	if strings.TrimSpace(req.URL) == "" {
		return pz.BadRequest(pz.JSON(errorBody{Error: "URL is required"}), struct {
			Message string
		}{"analyze request without url"})
	}

	platform := downloader.DetectPlatform(req.URL)

	info, err := h.Analyzer.Analyze(context.Background(), req.URL)
	if err != nil {
		return pz.Response{
			Status: http.StatusInternalServerError,
			Data: pz.JSON(errorBody{
				Error:   "Could not analyze the URL. The content may be private or unsupported.",
				Details: err.Error(),
			}),
		}.WithLogging(e{err})
	}

	return pz.Ok(pz.JSON(analyzeResponse{
		Success:       true,
		Platform:      platform.Key,
		PlatformName:  platform.Name,
		PlatformIcon:  platform.Icon,
		PlatformColor: platform.Color,
		URL:           req.URL,
		Title:         info.Title,
		Thumbnail:     info.Thumbnail,
		Duration:      info.Duration,
		Formats:       info.Formats,
	}), struct {
		Message, Platform string
	}{"analyzed url", platform.Key})
}

type downloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"formatId"`
	Title    string `json:"title"`
}

type downloadResponse struct {
	Success    bool   `json:"success"`
	DownloadID string `json:"downloadId"`
}

// Download maneja POST /api/download. Responde con el ID del trabajo antes
// de que el subproceso termine.
func (h *Handlers) Download(r pz.Request) pz.Response {
	var req downloadRequest
	if err := r.JSON(&req); err != nil {
		return pz.BadRequest(pz.JSON(errorBody{Error: "invalid JSON body"}), e{err})
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.FormatID) == "" {
		return pz.BadRequest(pz.JSON(errorBody{Error: "URL and formatId are required"}), struct {
			Message string
		}{"download request missing url or formatId"})
	}

	jobID, err := h.Downloader.StartDownload(req.URL, req.FormatID)
	if err != nil {
		return pz.Response{
			Status: http.StatusInternalServerError,
			Data: pz.JSON(errorBody{
				Error:   "Could not start the download.",
				Details: err.Error(),
			}),
		}.WithLogging(e{err})
	}

	return pz.Ok(pz.JSON(downloadResponse{Success: true, DownloadID: jobID}), struct {
		Message, Job string
	}{"download started", jobID})
}

type progressResponse struct {
	Success bool `json:"success"`
	domain.DownloadJob
}

// GetProgress maneja GET /api/progress/{downloadId}
func (h *Handlers) GetProgress(r pz.Request) pz.Response {
	id := r.Vars["downloadId"]

	job, ok := h.Progress.Get(id)
	if !ok {
		return pz.NotFound(pz.JSON(errorBody{Error: "download not found"}), struct {
			Message, Job string
		}{"progress poll for unknown job", id})
	}

	return pz.Ok(pz.JSON(progressResponse{Success: true, DownloadJob: job}))
}

type cancelResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// Cancel maneja POST /api/cancel/{downloadId}
func (h *Handlers) Cancel(r pz.Request) pz.Response {
	id := r.Vars["downloadId"]

	if !h.Downloader.Cancel(id) {
		return pz.NotFound(pz.JSON(errorBody{Error: "download not found"}), struct {
			Message, Job string
		}{"cancel for unknown job", id})
	}

	return pz.Ok(pz.JSON(cancelResponse{Success: true, Status: "canceled"}), struct {
		Message, Job string
	}{"download canceled", id})
}

type historyFile struct {
	Name        string    `json:"name"`
	Size        string    `json:"size"`
	Date        time.Time `json:"date"`
	DownloadURL string    `json:"downloadUrl"`
}

type historyResponse struct {
	Success bool          `json:"success"`
	Files   []historyFile `json:"files"`
}

// GetHistory maneja GET /api/history: lista los archivos terminados en el
// directorio de descargas, más nuevos primero. El directorio es la fuente
// de verdad; la base solo respalda estadísticas.
func (h *Handlers) GetHistory(r pz.Request) pz.Response {
	entries, err := os.ReadDir(h.DownloadsDir)
	if err != nil {
		return pz.Response{
			Status: http.StatusInternalServerError,
			Data:   pz.JSON(errorBody{Error: "could not read downloads directory"}),
		}.WithLogging(e{err})
	}

	files := make([]historyFile, 0, historyLimit)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		// Intermedios de descargas en curso
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, historyFile{
			Name:        name,
			Size:        downloader.FormatFileSize(info.Size()),
			Date:        info.ModTime(),
			DownloadURL: "/downloads/" + url.PathEscape(name),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Date.After(files[j].Date) })
	if len(files) > historyLimit {
		files = files[:historyLimit]
	}

	return pz.Ok(pz.JSON(historyResponse{Success: true, Files: files}))
}

type statsResponse struct {
	Success         bool   `json:"success"`
	Active          int    `json:"active"`
	Total           int    `json:"total"`
	Completed       int    `json:"completed"`
	Failed          int    `json:"failed"`
	BytesDownloaded int64  `json:"bytesDownloaded"`
	SizeLabel       string `json:"sizeLabel"`
}

// GetStats maneja GET /api/stats: gauge de trabajos activos más los
// acumulados del historial persistido
func (h *Handlers) GetStats(r pz.Request) pz.Response {
	stats := statsResponse{
		Success: true,
		Active:  h.Progress.ActiveCount(),
	}

	if h.History != nil {
		ctx := context.Background()

		total, err := h.History.CountTotal(ctx)
		if err != nil {
			return pz.Response{
				Status: http.StatusInternalServerError,
				Data:   pz.JSON(errorBody{Error: "could not read download history"}),
			}.WithLogging(e{err})
		}
		completed, err := h.History.CountByStatus(ctx, domain.StatusComplete)
		if err != nil {
			return pz.Response{
				Status: http.StatusInternalServerError,
				Data:   pz.JSON(errorBody{Error: "could not read download history"}),
			}.WithLogging(e{err})
		}
		failed, err := h.History.CountByStatus(ctx, domain.StatusError)
		if err != nil {
			return pz.Response{
				Status: http.StatusInternalServerError,
				Data:   pz.JSON(errorBody{Error: "could not read download history"}),
			}.WithLogging(e{err})
		}
		bytes, err := h.History.SumCompletedBytes(ctx)
		if err != nil {
			return pz.Response{
				Status: http.StatusInternalServerError,
				Data:   pz.JSON(errorBody{Error: "could not read download history"}),
			}.WithLogging(e{err})
		}

		stats.Total = total
		stats.Completed = completed
		stats.Failed = failed
		stats.BytesDownloaded = bytes
		stats.SizeLabel = downloader.FormatFileSize(bytes)
	}

	return pz.Ok(pz.JSON(stats))
}
