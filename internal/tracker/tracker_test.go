package tracker

import (
	"testing"
	"time"

	"github.com/elsanchez/social-download/internal/domain"
)

func TestCreateIsImmediatelyVisible(t *testing.T) {
	tr := New(DefaultRetention)
	tr.Create("job-1", "https://example.com/v")

	job, ok := tr.Get("job-1")
	if !ok {
		t.Fatal("job not visible after Create")
	}
	if job.Status != domain.StatusInitializing {
		t.Errorf("Status = %q, want initializing", job.Status)
	}
	if job.Progress != 0 {
		t.Errorf("Progress = %v, want 0", job.Progress)
	}
}

func TestGetUnknownID(t *testing.T) {
	tr := New(DefaultRetention)

	if _, ok := tr.Get("nope"); ok {
		t.Error("expected not-found for unknown id")
	}
}

func TestUpdateMutatesJob(t *testing.T) {
	tr := New(DefaultRetention)
	tr.Create("job-1", "u")

	ok := tr.Update("job-1", func(j *domain.DownloadJob) {
		j.Status = domain.StatusDownloading
		j.Progress = 45.2
		j.Speed = "2.5MiB/s"
	})
	if !ok {
		t.Fatal("Update returned false for existing job")
	}

	job, _ := tr.Get("job-1")
	if job.Status != domain.StatusDownloading || job.Progress != 45.2 {
		t.Errorf("unexpected job after update: %+v", job)
	}
}

func TestGetReturnsSnapshotCopy(t *testing.T) {
	tr := New(DefaultRetention)
	tr.Create("job-1", "u")

	snapshot, _ := tr.Get("job-1")
	snapshot.Progress = 99 // mutar la copia no debe tocar el registro

	job, _ := tr.Get("job-1")
	if job.Progress != 0 {
		t.Errorf("registry mutated through snapshot: %v", job.Progress)
	}
}

func TestTerminalStateIsFinal(t *testing.T) {
	tr := New(DefaultRetention)
	tr.Create("job-1", "u")

	tr.Update("job-1", func(j *domain.DownloadJob) {
		j.Status = domain.StatusError
		j.Error = "yt-dlp exited with code 1"
	})

	// Mutaciones posteriores se ignoran
	if ok := tr.Update("job-1", func(j *domain.DownloadJob) {
		j.Status = domain.StatusDownloading
		j.Progress = 50
	}); ok {
		t.Error("Update should refuse mutations on terminal jobs")
	}

	job, _ := tr.Get("job-1")
	if job.Status != domain.StatusError || job.Progress != 0 {
		t.Errorf("terminal job mutated: %+v", job)
	}
	if job.Error == "" {
		t.Error("terminal error job must carry a message")
	}
}

func TestTerminalJobEvictedAfterRetention(t *testing.T) {
	tr := New(20 * time.Millisecond)
	tr.Create("job-1", "u")

	tr.Update("job-1", func(j *domain.DownloadJob) {
		j.Status = domain.StatusComplete
		j.Progress = 100
	})

	// Consultable dentro de la ventana
	if _, ok := tr.Get("job-1"); !ok {
		t.Fatal("job should remain queryable during retention window")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := tr.Get("job-1"); ok {
		t.Error("job should be evicted after retention window")
	}
}

func TestActiveJobNotEvicted(t *testing.T) {
	tr := New(20 * time.Millisecond)
	tr.Create("job-1", "u")

	time.Sleep(100 * time.Millisecond)

	if _, ok := tr.Get("job-1"); !ok {
		t.Error("active job must not be evicted")
	}
}

func TestActiveCount(t *testing.T) {
	tr := New(DefaultRetention)
	tr.Create("a", "u")
	tr.Create("b", "u")
	tr.Create("c", "u")

	tr.Update("b", func(j *domain.DownloadJob) { j.Status = domain.StatusComplete })

	if got := tr.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount() = %d, want 2", got)
	}
}
