package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/elsanchez/social-download/internal/domain"
	"github.com/elsanchez/social-download/internal/repository"
)

// DownloadRepository implementa repository.DownloadRepository usando SQLite
type DownloadRepository struct {
	db *sqlx.DB
}

// Compiletime check: asegura que implementa la interfaz
var _ repository.DownloadRepository = (*DownloadRepository)(nil)

// NewDownloadRepository crea un nuevo repositorio de descargas
func NewDownloadRepository(db *sqlx.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// downloadRow mapea la tabla SQL a struct Go
type downloadRow struct {
	ID           int64         `db:"id"`
	JobID        string        `db:"job_id"`
	URL          string        `db:"url"`
	Platform     string        `db:"platform"`
	Format       string        `db:"format"`
	Filename     string        `db:"filename"`
	SizeBytes    int64         `db:"size_bytes"`
	Status       string        `db:"status"`
	ErrorMessage string        `db:"error_message"`
	CreatedAt    int64         `db:"created_at"`
	CompletedAt  sql.NullInt64 `db:"completed_at"`
}

// Create inserta un nuevo record de descarga
func (r *DownloadRepository) Create(ctx context.Context, rec *domain.DownloadRecord) (int64, error) {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO downloads (job_id, url, platform, format, filename, size_bytes, status, error_message, created_at)
		VALUES (:job_id, :url, :platform, :format, :filename, :size_bytes, :status, :error_message, :created_at)
	`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"job_id":        rec.JobID,
		"url":           rec.URL,
		"platform":      rec.Platform,
		"format":        rec.Format,
		"filename":      rec.Filename,
		"size_bytes":    rec.SizeBytes,
		"status":        string(rec.Status),
		"error_message": rec.ErrorMessage,
		"created_at":    createdAt.Unix(),
	})

	if err != nil {
		return 0, fmt.Errorf("insert download: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	return id, nil
}

// GetByJobID obtiene un record por el ID de trabajo
func (r *DownloadRepository) GetByJobID(ctx context.Context, jobID string) (*domain.DownloadRecord, error) {
	var row downloadRow

	query := `SELECT * FROM downloads WHERE job_id = ?`
	if err := r.db.GetContext(ctx, &row, query, jobID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("download not found: %s", jobID)
		}
		return nil, fmt.Errorf("get download: %w", err)
	}

	return rowToDomain(&row), nil
}

// MarkComplete registra el resultado de una descarga exitosa
func (r *DownloadRepository) MarkComplete(ctx context.Context, jobID, filename string, sizeBytes int64) error {
	query := `
		UPDATE downloads
		SET status = ?, filename = ?, size_bytes = ?, completed_at = ?
		WHERE job_id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		string(domain.StatusComplete), filename, sizeBytes, time.Now().Unix(), jobID)
	return err
}

// MarkFailed registra el fallo de una descarga
func (r *DownloadRepository) MarkFailed(ctx context.Context, jobID, errMsg string) error {
	query := `
		UPDATE downloads
		SET status = ?, error_message = ?, completed_at = ?
		WHERE job_id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		string(domain.StatusError), errMsg, time.Now().Unix(), jobID)
	return err
}

// GetRecent obtiene los records más recientes
func (r *DownloadRepository) GetRecent(ctx context.Context, limit int) ([]*domain.DownloadRecord, error) {
	var rows []downloadRow

	query := `
		SELECT * FROM downloads
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("get recent downloads: %w", err)
	}

	records := make([]*domain.DownloadRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rowToDomain(&rows[i]))
	}
	return records, nil
}

// CountByStatus cuenta records por status
func (r *DownloadRepository) CountByStatus(ctx context.Context, status domain.JobStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM downloads WHERE status = ?`
	err := r.db.GetContext(ctx, &count, query, string(status))
	return count, err
}

// CountTotal cuenta todos los records
func (r *DownloadRepository) CountTotal(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM downloads`
	err := r.db.GetContext(ctx, &count, query)
	return count, err
}

// SumCompletedBytes suma los bytes de las descargas completas
func (r *DownloadRepository) SumCompletedBytes(ctx context.Context) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(size_bytes), 0) FROM downloads WHERE status = ?`
	err := r.db.GetContext(ctx, &total, query, string(domain.StatusComplete))
	return total, err
}

// Helper: conversión row → domain
func rowToDomain(row *downloadRow) *domain.DownloadRecord {
	rec := &domain.DownloadRecord{
		ID:           row.ID,
		JobID:        row.JobID,
		URL:          row.URL,
		Platform:     row.Platform,
		Format:       row.Format,
		Filename:     row.Filename,
		SizeBytes:    row.SizeBytes,
		Status:       domain.JobStatus(row.Status),
		ErrorMessage: row.ErrorMessage,
		CreatedAt:    time.Unix(row.CreatedAt, 0),
	}

	if row.CompletedAt.Valid {
		t := time.Unix(row.CompletedAt.Int64, 0)
		rec.CompletedAt = &t
	}

	return rec
}
