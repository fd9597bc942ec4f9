package domain

// MediaType clasifica una opción de formato
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaImage MediaType = "image"
	MediaOther MediaType = "other"
)

// IDs sintéticos que el orquestador traduce a expresiones de selección
const (
	FormatBest  = "best"
	FormatAudio = "audio"
)

// FormatOption es una opción de descarga presentada al usuario.
// El ID es opaco para el orquestador: o un format_id nativo de la
// herramienta, o uno de los sintéticos "best"/"audio".
type FormatOption struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     MediaType `json:"type"`
	Quality  string    `json:"quality"`
	Size     string    `json:"size"`
	Ext      string    `json:"ext"`
	HasAudio bool      `json:"hasAudio"`
}

// MediaInfo es el resultado de analizar una URL
type MediaInfo struct {
	Title     string         `json:"title"`
	Thumbnail string         `json:"thumbnail,omitempty"`
	Duration  string         `json:"duration,omitempty"`
	Formats   []FormatOption `json:"formats"`
}
