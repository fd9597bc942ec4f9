package domain

import "time"

// JobStatus representa los estados posibles de un trabajo de descarga
type JobStatus string

const (
	StatusInitializing JobStatus = "initializing"
	StatusDownloading  JobStatus = "downloading"
	StatusConverting   JobStatus = "converting"
	StatusComplete     JobStatus = "complete"
	StatusError        JobStatus = "error"
)

// DownloadJob representa el estado observable de una descarga en curso.
// El Progress Tracker es el único dueño del registro; los pollers reciben
// copias.
type DownloadJob struct {
	ID       string    `json:"id"`
	URL      string    `json:"-"`
	Progress float64   `json:"progress"`
	Status   JobStatus `json:"status"`

	// Labels tal como se muestran al usuario
	Speed      string `json:"speed,omitempty"`
	ETA        string `json:"eta,omitempty"`
	Downloaded string `json:"downloaded,omitempty"`
	Total      string `json:"total,omitempty"`

	// Poblados al llegar a estado terminal
	Filename       string `json:"filename,omitempty"`    // nombre limpio para el usuario
	ServerFilename string `json:"-"`                     // nombre real en disco (con prefijo de job)
	DownloadURL    string `json:"downloadUrl,omitempty"` // URL relativa bajo /downloads
	Size           string `json:"size,omitempty"`
	Error          string `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"-"`
	FinishedAt *time.Time `json:"-"`
}

// IsTerminal retorna true si el trabajo llegó a un estado final
func (j *DownloadJob) IsTerminal() bool {
	return j.Status == StatusComplete || j.Status == StatusError
}

// IsActive retorna true si el trabajo sigue en proceso
func (j *DownloadJob) IsActive() bool {
	return !j.IsTerminal()
}
