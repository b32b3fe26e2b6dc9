// Package main provides the Song Deck web client entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"songdeck/internal/catalog"
	"songdeck/internal/core"
	httpserver "songdeck/internal/http"
	"songdeck/internal/i18n"
	"songdeck/internal/logging"
	"songdeck/internal/resolver"
	"songdeck/internal/videosearch"
	"songdeck/internal/view"
	"songdeck/internal/web"
)

const serviceName = "songdeck"

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "songdeck",
	Short: "Song Deck - music discovery web client",
	Long: `Song Deck searches a music catalog and renders the results as playable cards.
Tracks without a catalog preview are played from the best matching video's audio stream,
resolved through the audiosrv extraction service.`,
	RunE: runSongDeck,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := core.DefaultConfig()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file, rotated by size")
	rootCmd.PersistentFlags().Int("log-max-size-mb", defaults.Log.MaxSizeMB, "rotate the log file after this many megabytes")
	rootCmd.PersistentFlags().Int("log-max-backups", defaults.Log.MaxBackups, "number of rotated log files to keep")
	rootCmd.PersistentFlags().Int("log-max-age-days", defaults.Log.MaxAgeDays, "days to keep rotated log files")
	rootCmd.PersistentFlags().String("server-host", defaults.Server.Host, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", core.DefaultServerPort, "HTTP server port")
	rootCmd.PersistentFlags().String("catalog-base-url", core.DefaultCatalogBaseURL, "catalog proxy root URL")
	rootCmd.PersistentFlags().String("catalog-account", "", "catalog proxy account name (the proxy expects it in the request path)")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID (queries the Web API directly)")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("video-search-url", core.DefaultVideoSearchURL, "video search API endpoint")
	rootCmd.PersistentFlags().String("extraction-url", core.DefaultExtractionURL, "audio extraction service URL")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	rootCmd.PersistentFlags().String("language", i18n.DefaultLanguage, fmt.Sprintf("UI language (%s)", supportedLangs))
	rootCmd.PersistentFlags().Int("max-cards", core.DefaultMaxCards, "initial card index capacity (grows to fit larger decks)")
	rootCmd.PersistentFlags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	// Load .env file explicitly using gotenv
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("SONGDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()

	builtLogger, err := logging.Build(&config.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	logger = builtLogger
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureLogging(cfg)
	configureServer(cfg)
	configureCatalog(cfg)
	configureVideo(cfg)
	configureApp(cfg)

	return cfg
}

func configureLogging(cfg *core.Config) {
	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.File = viper.GetString("log-file")
	cfg.Log.MaxSizeMB = viper.GetInt("log-max-size-mb")
	cfg.Log.MaxBackups = viper.GetInt("log-max-backups")
	cfg.Log.MaxAgeDays = viper.GetInt("log-max-age-days")
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	cfg.Server.Port = viper.GetInt("server-port")
}

func configureCatalog(cfg *core.Config) {
	cfg.Catalog.BaseURL = viper.GetString("catalog-base-url")
	cfg.Catalog.Account = viper.GetString("catalog-account")
	cfg.Catalog.ClientID = viper.GetString("spotify-client-id")
	cfg.Catalog.ClientSecret = viper.GetString("spotify-client-secret")
}

func configureVideo(cfg *core.Config) {
	cfg.Video.SearchURL = viper.GetString("video-search-url")
	cfg.Extraction.ServiceURL = viper.GetString("extraction-url")
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	cfg.App.MaxCards = viper.GetInt("max-cards")
}

func runSongDeck(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() {
		_ = logger.Sync()
	}()

	// Credentials are not validated; a missing key surfaces as a failing upstream call.
	creds, err := core.LoadCredentials()
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	config.Catalog.APIKey = creds.CatalogAPIKey
	config.Video.APIKey = creds.VideoAPIKey

	logger.Info("Starting Song Deck",
		zap.String("catalog", config.Catalog.BaseURL),
		zap.Bool("catalog_direct", config.Catalog.Direct()),
		zap.String("extraction_url", config.Extraction.ServiceURL),
		zap.String("language", config.App.Language))

	metrics := httpserver.NewMetrics(serviceName)

	catalogClient := catalog.NewClient(&config.Catalog, logger.Named("catalog"))
	videos := videosearch.NewClient(&config.Video, http.DefaultClient, logger.Named("videosearch"))
	extraction := resolver.NewExtractionClient(config.Extraction.ServiceURL, http.DefaultClient)
	audio := resolver.New(videos, extraction, metrics, logger.Named("resolver"))
	deck := view.New(catalogClient, audio, metrics, config.App.MaxCards, logger.Named("view"))

	handler, err := web.NewHandler(deck, i18n.NewLocalizer(config.App.Language), metrics, logger.Named("web"))
	if err != nil {
		return fmt.Errorf("failed to build web handler: %w", err)
	}
	app := httpserver.SecurityHeaders(httpserver.RequestLogger(logger.Named("web"))(handler.Routes()))
	server := httpserver.NewServer(&config.Server, logger.Named("http"), serviceName, metrics, app)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gCtx)
	})

	g.Go(func() error {
		// A failed initial search leaves an empty deck; it never stops the service.
		_ = deck.Mount(gCtx)
		return nil
	})

	logger.Info("Song Deck started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("Song Deck stopped with error", zap.Error(err))
		return err
	}

	logger.Info("Song Deck stopped gracefully")
	return nil
}
