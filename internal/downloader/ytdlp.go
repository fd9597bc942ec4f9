package downloader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/elsanchez/social-download/internal/domain"
	"github.com/elsanchez/social-download/internal/repository"
	"github.com/elsanchez/social-download/internal/runner"
	"github.com/elsanchez/social-download/internal/tracker"
)

// defaultFragments es la concurrencia de fragmentos (-N) por defecto
const defaultFragments = 8

// maxFilenameChars acota los nombres que genera la plantilla de salida
const maxFilenameChars = 100

// Config agrupa los parámetros externos del wrapper
type Config struct {
	BinPath    string // ejecutable yt-dlp
	FfmpegPath string // se pasa con --ffmpeg-location, nunca se invoca directo
	OutputDir  string // directorio donde aterrizan los archivos
	Fragments  int    // fragmentos concurrentes, 0 = defaultFragments
}

// YtDlp orquesta los subprocesos de yt-dlp: análisis de metadata síncrono
// y descargas en background con progreso vía tracker
type YtDlp struct {
	binPath    string
	ffmpegPath string
	outputDir  string
	fragments  int

	runner  *runner.Runner
	tracker *tracker.Tracker
	history repository.DownloadRepository // opcional, nil deshabilita historial

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewYtDlp crea el orquestador de descargas
func NewYtDlp(cfg Config, run *runner.Runner, track *tracker.Tracker, history repository.DownloadRepository) *YtDlp {
	fragments := cfg.Fragments
	if fragments <= 0 {
		fragments = defaultFragments
	}

	return &YtDlp{
		binPath:    cfg.BinPath,
		ffmpegPath: cfg.FfmpegPath,
		outputDir:  cfg.OutputDir,
		fragments:  fragments,
		runner:     run,
		tracker:    track,
		history:    history,
		cancels:    make(map[string]context.CancelFunc),
	}
}

// CheckInstalled verifica que el binario existe y responde. Retorna la
// versión reportada.
func (y *YtDlp) CheckInstalled(ctx context.Context) (string, error) {
	out, err := y.runner.Run(ctx, "", y.binPath, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// StartDownload lanza una descarga en background y retorna el ID del
// trabajo. El progreso se consulta en el tracker; esta llamada solo falla
// si el subproceso no se pudo lanzar.
func (y *YtDlp) StartDownload(rawURL, formatID string) (string, error) {
	jobID := newJobID()
	args := y.buildDownloadArgs(jobID, rawURL, formatID)

	ctx, cancel := context.WithCancel(context.Background())
	proc, err := y.runner.Start(ctx, y.outputDir, y.binPath, args...)
	if err != nil {
		cancel()
		return "", err
	}

	// El trabajo queda visible antes de procesar cualquier salida
	y.tracker.Create(jobID, rawURL)
	y.rememberCancel(jobID, cancel)
	y.recordStart(jobID, rawURL, formatID)

	go y.follow(jobID, proc)

	log.Printf("descarga iniciada: job=%s format=%s url=%s", jobID, formatID, rawURL)
	return jobID, nil
}

// Cancel aborta un trabajo en curso. Retorna false si el ID no corresponde
// a ningún proceso activo.
func (y *YtDlp) Cancel(jobID string) bool {
	y.mu.Lock()
	cancel, ok := y.cancels[jobID]
	y.mu.Unlock()
	if !ok {
		return false
	}

	// Marcar terminal antes del kill: el estado cancelado debe ganarle al
	// error de proceso que el kill va a producir
	y.tracker.Update(jobID, func(j *domain.DownloadJob) {
		j.Status = domain.StatusError
		j.Error = "download canceled"
	})
	if y.history != nil {
		if err := y.history.MarkFailed(context.Background(), jobID, "download canceled"); err != nil {
			log.Printf("actualizar historial: %v", err)
		}
	}

	cancel()
	log.Printf("descarga cancelada: job=%s", jobID)
	return true
}

// globalArgs son los flags comunes a análisis y descarga
func (y *YtDlp) globalArgs() []string {
	args := []string{"--force-ipv4"}
	if y.ffmpegPath != "" {
		args = append(args, "--ffmpeg-location", y.ffmpegPath)
	}
	return args
}

// buildDownloadArgs arma la línea de comando completa para un formato
// elegido. Los tres modos (best, audio, formato explícito) difieren solo
// en el selector y el postprocesado.
func (y *YtDlp) buildDownloadArgs(jobID, rawURL, formatID string) []string {
	args := y.globalArgs()
	args = append(args,
		"--newline",
		"--no-playlist",
		"-N", strconv.Itoa(y.fragments),
		"--no-mtime",
		"--restrict-filenames",
		"--trim-filenames", strconv.Itoa(maxFilenameChars),
		"-o", jobID+"_%(title)s.%(ext)s",
	)

	switch formatID {
	case domain.FormatAudio:
		args = append(args, "-x", "--audio-format", "mp3", "--audio-quality", "192K")
	case domain.FormatBest:
		args = append(args, "-f", "b/bv*+ba", "--merge-output-format", "mp4")
	default:
		// Formato de video explícito: pedir el mejor audio aparte y dejar
		// que ffmpeg los junte
		args = append(args, "-f", formatID+"+ba/b", "--merge-output-format", "mp4")
	}

	return append(args, rawURL)
}

// follow consume la salida del proceso hasta que termina y resuelve el
// estado final del trabajo. Corre en su propia goroutine.
func (y *YtDlp) follow(jobID string, proc *runner.Process) {
	for line := range proc.Lines {
		y.applyLine(jobID, line)
	}

	err := proc.Wait()
	y.forgetCancel(jobID)

	if err != nil {
		y.failJob(jobID, err, proc.StderrTail())
		return
	}
	y.finishJob(jobID)
}

// applyLine traduce una línea de salida a una mutación de estado
func (y *YtDlp) applyLine(jobID, line string) {
	if update, ok := parseDownloadLine(line); ok {
		y.tracker.Update(jobID, func(j *domain.DownloadJob) {
			j.Status = domain.StatusDownloading
			j.Progress = update.Percent
			j.ETA = update.ETA
			j.Total = update.TotalLabel
			if update.Speed != "" {
				j.Speed = update.Speed
			}
			if update.TotalBytes > 0 {
				done := int64(float64(update.TotalBytes) * update.Percent / 100)
				j.Downloaded = FormatFileSize(done)
			}
		})
		return
	}

	if isConversionLine(line) {
		y.tracker.Update(jobID, func(j *domain.DownloadJob) {
			j.Status = domain.StatusConverting
			j.Progress = convertingPercent
		})
	}
}

// failJob marca el trabajo como fallido con un mensaje diagnosticable
func (y *YtDlp) failJob(jobID string, procErr error, stderrTail string) {
	msg := downloadErrorMessage(procErr, stderrTail)

	if !y.tracker.Update(jobID, func(j *domain.DownloadJob) {
		j.Status = domain.StatusError
		j.Error = msg
	}) {
		// Ya terminal: cancelación, el historial ya quedó escrito
		return
	}

	log.Printf("descarga falló: job=%s: %s", jobID, msg)
	if y.history != nil {
		if err := y.history.MarkFailed(context.Background(), jobID, msg); err != nil {
			log.Printf("actualizar historial: %v", err)
		}
	}
}

// finishJob localiza el archivo final y publica el estado complete
func (y *YtDlp) finishJob(jobID string) {
	name, size, err := y.locateOutput(jobID)
	if err != nil {
		log.Printf("descarga sin archivo: job=%s: %v", jobID, err)
		y.tracker.Update(jobID, func(j *domain.DownloadJob) {
			j.Status = domain.StatusError
			j.Error = "downloaded file not found on server"
		})
		if y.history != nil {
			if err := y.history.MarkFailed(context.Background(), jobID, "downloaded file not found on server"); err != nil {
				log.Printf("actualizar historial: %v", err)
			}
		}
		return
	}

	public := strings.TrimPrefix(name, jobID+"_")
	y.tracker.Update(jobID, func(j *domain.DownloadJob) {
		j.Status = domain.StatusComplete
		j.Progress = 100
		j.Filename = public
		j.ServerFilename = name
		j.DownloadURL = "/downloads/" + url.PathEscape(name)
		j.Size = FormatFileSize(size)
	})

	log.Printf("descarga completa: job=%s file=%s size=%s", jobID, public, FormatFileSize(size))
	if y.history != nil {
		if err := y.history.MarkComplete(context.Background(), jobID, name, size); err != nil {
			log.Printf("actualizar historial: %v", err)
		}
	}
}

// locateOutput busca el archivo final por prefijo de job. yt-dlp puede
// dejar intermedios .part o .ytdl; se ignoran.
func (y *YtDlp) locateOutput(jobID string) (string, int64, error) {
	entries, err := os.ReadDir(y.outputDir)
	if err != nil {
		return "", 0, fmt.Errorf("read output dir: %w", err)
	}

	prefix := jobID + "_"
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return "", 0, fmt.Errorf("stat %s: %w", name, err)
		}
		return name, info.Size(), nil
	}

	return "", 0, fmt.Errorf("no output file with prefix %s", prefix)
}

func (y *YtDlp) recordStart(jobID, rawURL, formatID string) {
	if y.history == nil {
		return
	}

	rec := &domain.DownloadRecord{
		JobID:     jobID,
		URL:       rawURL,
		Platform:  DetectPlatform(rawURL).Key,
		Format:    formatID,
		Status:    domain.StatusDownloading,
		CreatedAt: time.Now(),
	}
	if _, err := y.history.Create(context.Background(), rec); err != nil {
		log.Printf("registrar descarga en historial: %v", err)
	}
}

func (y *YtDlp) rememberCancel(jobID string, cancel context.CancelFunc) {
	y.mu.Lock()
	defer y.mu.Unlock()
	y.cancels[jobID] = cancel
}

func (y *YtDlp) forgetCancel(jobID string) {
	y.mu.Lock()
	defer y.mu.Unlock()

	if cancel, ok := y.cancels[jobID]; ok {
		cancel()
		delete(y.cancels, jobID)
	}
}

// downloadErrorMessage arma el mensaje de error visible al usuario a
// partir del exit code y las últimas líneas de stderr
func downloadErrorMessage(procErr error, stderrTail string) string {
	msg := procErr.Error()

	var exitErr *exec.ExitError
	if errors.As(procErr, &exitErr) {
		msg = fmt.Sprintf("yt-dlp exited with code %d", exitErr.ExitCode())
	}

	if tail := strings.TrimSpace(stderrTail); tail != "" {
		msg = msg + ": " + tail
	}
	return msg
}

// newJobID genera un ID ordenable por tiempo con sufijo aleatorio, apto
// como prefijo de nombre de archivo
func newJobID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
