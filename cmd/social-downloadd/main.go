package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/elsanchez/social-download/internal/daemon"
	"github.com/elsanchez/social-download/internal/downloader"
	"github.com/elsanchez/social-download/internal/ffmpeg"
	"github.com/elsanchez/social-download/internal/repository/sqlite"
	"github.com/elsanchez/social-download/internal/runner"
	"github.com/elsanchez/social-download/internal/tracker"
)

const version = "0.1.0"

// Config se toma del entorno. Los directorios vacíos se derivan del home.
type Config struct {
	Addr         string        `envconfig:"ADDR"          default:":3000"`
	DownloadsDir string        `envconfig:"DOWNLOADS_DIR"`
	DataDir      string        `envconfig:"DATA_DIR"`
	PublicDir    string        `envconfig:"PUBLIC_DIR"    default:"public"`
	YtDlpPath    string        `envconfig:"YTDLP_PATH"    default:"yt-dlp"`
	FfmpegPath   string        `envconfig:"FFMPEG_PATH"`
	Fragments    int           `envconfig:"FRAGMENTS"     default:"8"`
	Retention    time.Duration `envconfig:"RETENTION"     default:"5m"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("social-downloadd v%s starting...", version)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Directorios por defecto bajo el home
	if cfg.DownloadsDir == "" || cfg.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		if cfg.DownloadsDir == "" {
			cfg.DownloadsDir = filepath.Join(homeDir, "Downloads", "social-download")
		}
		if cfg.DataDir == "" {
			cfg.DataDir = filepath.Join(homeDir, ".local", "share", "social-download")
		}
	}

	for _, dir := range []string{cfg.DownloadsDir, cfg.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	log.Printf("Downloads directory: %s", cfg.DownloadsDir)
	log.Printf("Data directory: %s", cfg.DataDir)

	// Verificar dependencias antes de servir
	ffmpegPath, err := ffmpeg.Locate(cfg.FfmpegPath)
	if err != nil {
		log.Fatalf("Dependency check failed: %v", err)
	}
	if err := ffmpeg.CheckInstalled(ffmpegPath); err != nil {
		log.Fatalf("Dependency check failed: %v", err)
	}
	log.Printf("✓ ffmpeg found at %s", ffmpegPath)

	// Inicializar base de datos
	db, err := sqlite.NewDatabase(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	log.Println("✓ Database initialized")

	// Tracker y orquestador
	track := tracker.New(cfg.Retention)
	ytdlp := downloader.NewYtDlp(downloader.Config{
		BinPath:    cfg.YtDlpPath,
		FfmpegPath: ffmpegPath,
		OutputDir:  cfg.DownloadsDir,
		Fragments:  cfg.Fragments,
	}, runner.New(), track, db.DownloadRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ytdlpVersion, err := ytdlp.CheckInstalled(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Dependency check failed: %v (install: pip install yt-dlp)", err)
	}
	log.Printf("✓ yt-dlp %s", ytdlpVersion)

	// La UI estática es opcional
	publicDir := cfg.PublicDir
	if _, err := os.Stat(publicDir); err != nil {
		publicDir = ""
	}

	handlers := daemon.NewHandlers(ytdlp, ytdlp, track, db.DownloadRepo, cfg.DownloadsDir)
	server := daemon.NewServer(cfg.Addr, cfg.DownloadsDir, publicDir, handlers)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()
	log.Println("social-downloadd is ready")

	// Esperar señal de terminación
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	log.Println("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
