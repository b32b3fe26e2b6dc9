// Package main provides the audio extraction service entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"songdeck/internal/core"
	"songdeck/internal/extract"
	httpserver "songdeck/internal/http"
	"songdeck/internal/logging"
)

const serviceName = "audiosrv"

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "audiosrv",
	Short: "audiosrv - YouTube audio stream extraction",
	Long: `audiosrv answers GET /audio?url=<watch url> with the direct URL of the video's
highest quality audio-only stream.`,
	RunE: runAudioServer,
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
	rootCmd.PersistentFlags().String("server-host", defaults.Server.Host, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", core.DefaultAudioServerPort, "HTTP server port (also read from PORT)")
	rootCmd.PersistentFlags().String("extractor-backend", core.ExtractorBackendLibrary,
		fmt.Sprintf("stream metadata backend (%s, %s)", core.ExtractorBackendLibrary, core.ExtractorBackendYTDLP))
	rootCmd.PersistentFlags().String("ytdlp-path", defaults.Extraction.YTDLPPath, "yt-dlp binary used by the ytdlp backend")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindEnv("server-port", "SONGDECK_SERVER_PORT", "PORT"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind PORT: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
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

	cfg.Log.Level = viper.GetString("log-level")
	cfg.Log.File = viper.GetString("log-file")
	cfg.Server.Host = viper.GetString("server-host")
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Extraction.Backend = viper.GetString("extractor-backend")
	cfg.Extraction.YTDLPPath = viper.GetString("ytdlp-path")

	return cfg
}

func newMetadataSource(cfg *core.ExtractionConfig) (extract.MetadataSource, error) {
	switch cfg.Backend {
	case core.ExtractorBackendLibrary, "":
		return extract.NewLibrarySource(http.DefaultClient), nil
	case core.ExtractorBackendYTDLP:
		return extract.NewYTDLPSource(cfg.YTDLPPath), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend %q", cfg.Backend)
	}
}

func newRouter(service *extract.Service, metrics *httpserver.Metrics) http.Handler {
	router := mux.NewRouter()
	router.Handle("/audio", extract.NewHandler(service, metrics, logger.Named("handler"))).
		Methods(http.MethodGet, http.MethodHead)
	return httpserver.CORS(httpserver.RequestLogger(logger.Named("http"))(router))
}

func runAudioServer(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() {
		_ = logger.Sync()
	}()

	source, err := newMetadataSource(&config.Extraction)
	if err != nil {
		return err
	}

	logger.Info("Starting audiosrv",
		zap.String("backend", config.Extraction.Backend))

	metrics := httpserver.NewMetrics(serviceName)
	service := extract.NewService(source, logger.Named("extract"))
	server := httpserver.NewServer(&config.Server, logger.Named("http"), serviceName, metrics, newRouter(service, metrics))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gCtx)
	})

	logger.Info("Server is running on port",
		zap.Int("port", config.Server.Port))

	if err := g.Wait(); err != nil {
		logger.Error("audiosrv stopped with error", zap.Error(err))
		return err
	}

	logger.Info("audiosrv stopped gracefully")
	return nil
}
