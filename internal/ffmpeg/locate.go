// Package ffmpeg resuelve la ubicación del binario ffmpeg. El daemon no lo
// invoca para procesar: el path se le pasa a yt-dlp con --ffmpeg-location
// para los pasos de merge y extracción de audio.
package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
)

// commonLocations se prueban cuando no hay configuración ni PATH
var commonLocations = []string{
	"/usr/bin/ffmpeg",
	"/usr/local/bin/ffmpeg",
	"/opt/homebrew/bin/ffmpeg",
}

// Locate resuelve el path de ffmpeg: primero el configurado, después PATH,
// por último las ubicaciones conocidas
func Locate(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("configured ffmpeg path: %w", err)
		}
		return configured, nil
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, nil
	}

	for _, loc := range commonLocations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	return "", fmt.Errorf("ffmpeg not found (install: sudo apt install ffmpeg)")
}

// CheckInstalled verifica que el binario responde a -version
func CheckInstalled(path string) error {
	if err := exec.Command(path, "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg not usable at %s: %w", path, err)
	}
	return nil
}
