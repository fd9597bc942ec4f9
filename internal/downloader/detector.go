package downloader

import (
	"strings"

	"github.com/elsanchez/social-download/internal/domain"
)

// platformEntry asocia un substring de dominio con su plataforma.
// El orden importa: gana la primera coincidencia.
type platformEntry struct {
	domain string
	info   domain.PlatformInfo
}

var platformTable = []platformEntry{
	{"tiktok.com", domain.PlatformInfo{Key: "tiktok.com", Name: "TikTok", Icon: "🎵", Color: "#00f2ea"}},
	{"vm.tiktok.com", domain.PlatformInfo{Key: "vm.tiktok.com", Name: "TikTok", Icon: "🎵", Color: "#00f2ea"}},
	{"instagram.com", domain.PlatformInfo{Key: "instagram.com", Name: "Instagram", Icon: "📸", Color: "#e4405f"}},
	{"twitter.com", domain.PlatformInfo{Key: "twitter.com", Name: "Twitter/X", Icon: "🐦", Color: "#1da1f2"}},
	{"x.com", domain.PlatformInfo{Key: "x.com", Name: "Twitter/X", Icon: "🐦", Color: "#1da1f2"}},
	{"youtube.com", domain.PlatformInfo{Key: "youtube.com", Name: "YouTube", Icon: "▶️", Color: "#ff0000"}},
	{"youtu.be", domain.PlatformInfo{Key: "youtu.be", Name: "YouTube", Icon: "▶️", Color: "#ff0000"}},
	{"facebook.com", domain.PlatformInfo{Key: "facebook.com", Name: "Facebook", Icon: "👤", Color: "#1877f2"}},
	{"fb.watch", domain.PlatformInfo{Key: "fb.watch", Name: "Facebook", Icon: "👤", Color: "#1877f2"}},
	{"pinterest.com", domain.PlatformInfo{Key: "pinterest.com", Name: "Pinterest", Icon: "📌", Color: "#e60023"}},
	{"reddit.com", domain.PlatformInfo{Key: "reddit.com", Name: "Reddit", Icon: "🤖", Color: "#ff4500"}},
	{"vimeo.com", domain.PlatformInfo{Key: "vimeo.com", Name: "Vimeo", Icon: "🎬", Color: "#1ab7ea"}},
	{"twitch.tv", domain.PlatformInfo{Key: "twitch.tv", Name: "Twitch", Icon: "🎮", Color: "#9146ff"}},
	{"snapchat.com", domain.PlatformInfo{Key: "snapchat.com", Name: "Snapchat", Icon: "👻", Color: "#fffc00"}},
	{"dailymotion.com", domain.PlatformInfo{Key: "dailymotion.com", Name: "Dailymotion", Icon: "📺", Color: "#0066dc"}},
	{"soundcloud.com", domain.PlatformInfo{Key: "soundcloud.com", Name: "SoundCloud", Icon: "🎧", Color: "#ff5500"}},
}

// unknownPlatform es el fallback cuando ningún dominio coincide
var unknownPlatform = domain.PlatformInfo{Key: "unknown", Name: "Unknown", Icon: "🔗", Color: "#6366f1"}

// DetectPlatform detecta la plataforma desde la URL. Es una función total:
// cualquier string retorna un resultado, sin validación de URL real.
func DetectPlatform(urlStr string) domain.PlatformInfo {
	urlStr = strings.ToLower(urlStr)

	for _, entry := range platformTable {
		if strings.Contains(urlStr, entry.domain) {
			return entry.info
		}
	}

	return unknownPlatform
}
