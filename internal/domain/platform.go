package domain

// PlatformInfo describe la plataforma detectada a partir de la URL.
// Es un valor inmutable derivado solo del texto de la URL.
type PlatformInfo struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}
