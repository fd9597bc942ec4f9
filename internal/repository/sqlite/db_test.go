package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/elsanchez/social-download/internal/domain"
)

func TestDatabase_MigrationsApplied(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	// Verificar que existe el archivo de base de datos
	dbPath := filepath.Join(tmpDir, "downloads.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("database file was not created")
	}

	// Verificar que la tabla existe
	ctx := context.Background()

	var count int
	err = db.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='downloads'")
	if err != nil {
		t.Fatalf("failed to query tables: %v", err)
	}

	if count != 1 {
		t.Error("downloads table was not created")
	}
}

func TestDatabase_CreateAndGetDownload(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	rec := &domain.DownloadRecord{
		JobID:    "1700000000000-abcd1234",
		URL:      "https://youtube.com/watch?v=test",
		Platform: "youtube",
		Format:   "best",
		Status:   domain.StatusDownloading,
	}

	id, err := db.DownloadRepo.Create(ctx, rec)
	if err != nil {
		t.Fatalf("failed to create download: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero ID")
	}

	retrieved, err := db.DownloadRepo.GetByJobID(ctx, rec.JobID)
	if err != nil {
		t.Fatalf("failed to get download: %v", err)
	}

	if retrieved.URL != rec.URL {
		t.Errorf("expected URL %s, got %s", rec.URL, retrieved.URL)
	}
	if retrieved.Platform != "youtube" {
		t.Errorf("expected platform youtube, got %s", retrieved.Platform)
	}
	if retrieved.Status != domain.StatusDownloading {
		t.Errorf("expected status downloading, got %s", retrieved.Status)
	}
	if retrieved.CompletedAt != nil {
		t.Error("active download must not have completed_at")
	}
}

func TestDatabase_DownloadLifecycle(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	ok := &domain.DownloadRecord{JobID: "job-ok", URL: "u1", Status: domain.StatusDownloading}
	bad := &domain.DownloadRecord{JobID: "job-bad", URL: "u2", Status: domain.StatusDownloading}

	for _, rec := range []*domain.DownloadRecord{ok, bad} {
		if _, err := db.DownloadRepo.Create(ctx, rec); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
	}

	if err := db.DownloadRepo.MarkComplete(ctx, "job-ok", "job-ok_video.mp4", 2048); err != nil {
		t.Fatalf("mark complete: %v", err)
	}
	if err := db.DownloadRepo.MarkFailed(ctx, "job-bad", "yt-dlp exited with code 1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	done, err := db.DownloadRepo.GetByJobID(ctx, "job-ok")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != domain.StatusComplete || done.Filename != "job-ok_video.mp4" || done.SizeBytes != 2048 {
		t.Errorf("unexpected completed record: %+v", done)
	}
	if done.CompletedAt == nil {
		t.Error("completed record must carry completed_at")
	}

	failed, err := db.DownloadRepo.GetByJobID(ctx, "job-bad")
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != domain.StatusError || failed.ErrorMessage == "" {
		t.Errorf("unexpected failed record: %+v", failed)
	}

	// Estadísticas
	if n, _ := db.DownloadRepo.CountByStatus(ctx, domain.StatusComplete); n != 1 {
		t.Errorf("CountByStatus(complete) = %d, want 1", n)
	}
	if n, _ := db.DownloadRepo.CountTotal(ctx); n != 2 {
		t.Errorf("CountTotal = %d, want 2", n)
	}
	if sum, _ := db.DownloadRepo.SumCompletedBytes(ctx); sum != 2048 {
		t.Errorf("SumCompletedBytes = %d, want 2048", sum)
	}
}

func TestDatabase_GetRecentOrder(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	for _, jobID := range []string{"job-1", "job-2", "job-3"} {
		if _, err := db.DownloadRepo.Create(ctx, &domain.DownloadRecord{
			JobID: jobID, URL: "u", Status: domain.StatusDownloading,
		}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := db.DownloadRepo.GetRecent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].JobID != "job-3" || recent[1].JobID != "job-2" {
		t.Errorf("recent must be newest-first: %s, %s", recent[0].JobID, recent[1].JobID)
	}
}
