package core

import (
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultQuery is the catalog query used when the deck is first mounted.
	DefaultQuery = "trending"
	// DefaultServerPort is the port the web client listens on.
	DefaultServerPort = 3000
	// DefaultAudioServerPort is the port the extraction service listens on.
	DefaultAudioServerPort = 4000
	// DefaultCatalogBaseURL is the catalog proxy root; the account and key are appended.
	DefaultCatalogBaseURL = "https://v1.nocodeapi.com"
	// DefaultSpotifyAPIURL is used when direct client credentials are configured.
	DefaultSpotifyAPIURL = "https://api.spotify.com/v1/"
	// DefaultVideoSearchURL is the YouTube Data API search endpoint.
	DefaultVideoSearchURL = "https://www.googleapis.com/youtube/v3/search"
	// DefaultExtractionURL is where the web client expects the extraction service.
	DefaultExtractionURL = "http://localhost:4000"
	// DefaultMaxCards is the initial card index capacity; larger decks grow it.
	DefaultMaxCards = 1000

	// ExtractorBackendLibrary resolves streams in-process.
	ExtractorBackendLibrary = "library"
	// ExtractorBackendYTDLP resolves streams with the yt-dlp binary.
	ExtractorBackendYTDLP = "ytdlp"
)

type Config struct {
	Catalog    CatalogConfig
	Video      VideoConfig
	Extraction ExtractionConfig
	Server     ServerConfig
	Log        LogConfig
	App        AppConfig
}

type CatalogConfig struct {
	BaseURL      string
	Account      string
	APIKey       string
	ClientID     string
	ClientSecret string
}

// Direct reports whether the catalog should be queried with Spotify client credentials
// instead of through the key-in-path proxy.
func (c CatalogConfig) Direct() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type VideoConfig struct {
	SearchURL string
	APIKey    string
}

type ExtractionConfig struct {
	ServiceURL string
	Backend    string
	YTDLPPath  string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AppConfig struct {
	Language string
	MaxCards int
}

// Credentials are the two API keys the client needs. They are read from the process
// environment and deliberately not validated; a missing key shows up as a failing
// upstream call.
type Credentials struct {
	CatalogAPIKey string `env:"NOCODE_API_KEY"`
	VideoAPIKey   string `env:"YOUTUBE_API_KEY"`
}

// LoadCredentials reads Credentials from the environment.
func LoadCredentials() (*Credentials, error) {
	creds := &Credentials{}
	if err := env.Parse(creds); err != nil {
		return nil, err
	}
	return creds, nil
}

func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: DefaultCatalogBaseURL,
		},
		Video: VideoConfig{
			SearchURL: DefaultVideoSearchURL,
		},
		Extraction: ExtractionConfig{
			ServiceURL: DefaultExtractionURL,
			Backend:    ExtractorBackendLibrary,
			YTDLPPath:  "yt-dlp",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         DefaultServerPort,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 0,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		App: AppConfig{
			Language: "en",
			MaxCards: DefaultMaxCards,
		},
	}
}
