package downloader

import (
	"regexp"
	"strconv"
	"strings"
)

// Este archivo es el único lugar que conoce el formato textual de progreso
// de yt-dlp. Si la herramienta cambia su salida, solo se toca esto.

// convertingPercent es el progreso mostrado durante merge/extracción de
// audio: la herramienta no da progreso numérico en esa fase
const convertingPercent = 95

// etaCalculating se muestra mientras la herramienta aún no estima ETA
const etaCalculating = "calculating..."

// Línea típica:
//   [download]  45.2% of 125.5MiB at 2.5MiB/s ETA 00:25
// Variantes: "of ~" para tamaños aproximados, speed o ETA ausentes al
// arrancar.
var downloadLineRe = regexp.MustCompile(
	`\[download\]\s+([\d.]+)%\s+of\s+~?\s*([\d.]+)([KMGT]?i?B)(?:\s+at\s+(\S+))?(?:\s+ETA\s+([\d:]+))?`,
)

// progressUpdate es el resultado de parsear una línea de descarga
type progressUpdate struct {
	Percent    float64
	TotalLabel string
	TotalBytes int64
	Speed      string
	ETA        string
}

// parseDownloadLine extrae los campos de progreso de una línea de
// [download]. Retorna false si la línea no es de progreso.
func parseDownloadLine(line string) (*progressUpdate, bool) {
	m := downloadLineRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	percent, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, false
	}

	value, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, false
	}
	unit := m[3]

	update := &progressUpdate{
		Percent:    percent,
		TotalLabel: m[2] + unit,
		TotalBytes: sizeToBytes(value, unit),
		Speed:      m[4],
		ETA:        m[5],
	}
	if update.ETA == "" {
		update.ETA = etaCalculating
	}

	return update, true
}

// isConversionLine detecta el paso de merge o extracción de audio, que no
// reporta porcentaje
func isConversionLine(line string) bool {
	return strings.Contains(line, "[Merger]") ||
		strings.Contains(line, "[ExtractAudio]") ||
		strings.Contains(line, "[VideoConvertor]")
}

// sizeToBytes convierte "125.5" + "MiB" a bytes. yt-dlp usa unidades
// binarias (KiB/MiB/GiB); se aceptan también las decimales por si acaso.
func sizeToBytes(value float64, unit string) int64 {
	var mult float64
	switch unit {
	case "B":
		mult = 1
	case "KiB":
		mult = 1 << 10
	case "MiB":
		mult = 1 << 20
	case "GiB":
		mult = 1 << 30
	case "TiB":
		mult = 1 << 40
	case "KB":
		mult = 1e3
	case "MB":
		mult = 1e6
	case "GB":
		mult = 1e9
	case "TB":
		mult = 1e12
	default:
		return 0
	}
	return int64(value * mult)
}
