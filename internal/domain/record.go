package domain

import "time"

// DownloadRecord es la fila persistida de una descarga. A diferencia de
// DownloadJob (efímero, en memoria), el record sobrevive reinicios y
// alimenta historial y estadísticas.
type DownloadRecord struct {
	ID           int64
	JobID        string
	URL          string
	Platform     string
	Format       string
	Filename     string
	SizeBytes    int64
	Status       JobStatus
	ErrorMessage string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}
