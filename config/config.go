package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	defaultRedirectURI = "http://localhost:8888/callback"
	defaultGeminiModel = "gemini-2.0-flash"
	defaultPort        = "5000"
	defaultDBPath      = "data/sortify.db"

	// MaxSongCount is the most songs a description-driven playlist may ask for.
	MaxSongCount = 50
)

type ConfigStruct struct {
	Spotify SpotifyConfig
	Gemini  GeminiConfig
	Options Options
	Session SessionConfig
	Sentry  SentryConfig
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type Options struct {
	Port             string
	LogLevel         string
	DefaultSongCount int
}

type SessionConfig struct {
	// DBPath is where the catalog token is kept. Empty means memory only.
	DBPath string
}

type SentryConfig struct {
	DSN     string
	Release string
}

func (s *SpotifyConfig) IsConfigured() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

func (g *GeminiConfig) IsEnabled() bool {
	return g.APIKey != ""
}

func (s *SessionConfig) IsPersistent() bool {
	return s.DBPath != ""
}

func (s *SentryConfig) IsEnabled() bool {
	return s.DSN != ""
}

// NewConfig reads the process environment. Call it once at startup and hand the
// result to every component that needs it.
func NewConfig() *ConfigStruct {
	return &ConfigStruct{
		Spotify: SpotifyConfig{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			RedirectURI:  getOrDefault("SPOTIFY_REDIRECT_URI", defaultRedirectURI),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getOrDefault("GEMINI_MODEL", defaultGeminiModel),
		},
		Options: Options{
			Port:             getOrDefault("PORT", defaultPort),
			LogLevel:         getOrDefault("LOG_LEVEL", "info"),
			DefaultSongCount: getDefaultSongCount(),
		},
		Session: SessionConfig{
			DBPath: getDBPath(),
		},
		Sentry: SentryConfig{
			DSN:     os.Getenv("SENTRY_DSN"),
			Release: os.Getenv("RELEASE"),
		},
	}
}

func getOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDefaultSongCount() int {
	countStr := os.Getenv("DEFAULT_SONG_COUNT")
	if countStr == "" {
		return 10
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count <= 0 {
		return 10
	}
	if count > MaxSongCount {
		return MaxSongCount
	}
	return count
}

func getDBPath() string {
	path := strings.TrimSpace(os.Getenv("DB_PATH"))
	switch {
	case path == "":
		return defaultDBPath
	case strings.EqualFold(path, "none"):
		return ""
	}
	return path
}
