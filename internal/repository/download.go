package repository

import (
	"context"

	"github.com/elsanchez/social-download/internal/domain"
)

// DownloadRepository define las operaciones sobre el historial de descargas
type DownloadRepository interface {
	// CRUD básico
	Create(ctx context.Context, rec *domain.DownloadRecord) (int64, error)
	GetByJobID(ctx context.Context, jobID string) (*domain.DownloadRecord, error)

	// Updates de ciclo de vida
	MarkComplete(ctx context.Context, jobID, filename string, sizeBytes int64) error
	MarkFailed(ctx context.Context, jobID, errMsg string) error

	// Queries especializadas
	GetRecent(ctx context.Context, limit int) ([]*domain.DownloadRecord, error)

	// Estadísticas
	CountByStatus(ctx context.Context, status domain.JobStatus) (int, error)
	CountTotal(ctx context.Context) (int, error)
	SumCompletedBytes(ctx context.Context) (int64, error)
}
