package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/moodsense-ai/moodsense/internal/application"
	appanalysis "github.com/moodsense-ai/moodsense/internal/application/analysis"
	"github.com/moodsense-ai/moodsense/internal/config"
	"github.com/moodsense-ai/moodsense/internal/domain/advice"
	domai "github.com/moodsense-ai/moodsense/internal/domain/ai"
	domain "github.com/moodsense-ai/moodsense/internal/domain/analysis"
	"github.com/moodsense-ai/moodsense/internal/domain/conversation"
	"github.com/moodsense-ai/moodsense/internal/domain/fusion"
	"github.com/moodsense-ai/moodsense/internal/domain/reply"
	faceanalyzer "github.com/moodsense-ai/moodsense/internal/infra/analyzer/face"
	textanalyzer "github.com/moodsense-ai/moodsense/internal/infra/analyzer/text"
	voiceanalyzer "github.com/moodsense-ai/moodsense/internal/infra/analyzer/voice"
	openaiclient "github.com/moodsense-ai/moodsense/internal/infra/ai/openai"
	mysqlp "github.com/moodsense-ai/moodsense/internal/infra/db/mysql"
	postgresp "github.com/moodsense-ai/moodsense/internal/infra/db/postgres"
	"github.com/moodsense-ai/moodsense/internal/infra/httpserver"
	minioStore "github.com/moodsense-ai/moodsense/internal/infra/storage"
	"github.com/moodsense-ai/moodsense/internal/middleware"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "moodsense",
		Short:         "Multi-modal emotion and conversation risk analysis service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "path to config.yaml (defaults CONFIG_PATH or ./config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	root.AddCommand(serveCmd, versionCmd)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func serve(cmd *cobra.Command) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	log.Logger = logger

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = "config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}

	ctx := context.Background()

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database connect error: %w", err)
	}
	defer db.Close()

	var repo domain.Repository
	var convos conversation.Repository
	switch cfg.Database.Driver {
	case "mysql":
		repo = mysqlp.NewAnalysisRepository(db)
		convos = mysqlp.NewConversationRepository(db)
	default:
		repo = postgresp.NewAnalysisRepository(db)
		convos = postgresp.NewConversationRepository(db)
	}

	// Object storage is optional; without it uploads are analyzed
	// in memory only.
	var store *minioStore.Store
	if cfg.Minio.Endpoint != "" {
		store, err = minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init error: %w", err)
		}
	} else {
		logger.Warn().Msg("no object store configured, media retention disabled")
	}

	// Without an API key the analyzers run on local heuristics only.
	var model domai.Client
	if cfg.OpenAI.APIKey != "" {
		model = openaiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.VisionModel)
	} else {
		logger.Warn().Msg("no model API key configured, using local heuristics")
	}

	svc := &appanalysis.Service{
		Repo:       repo,
		Convos:     convos,
		Text:       textanalyzer.NewAnalyzer(model, cfg.Risk),
		Voice:      voiceanalyzer.NewAnalyzer(cfg.Risk),
		Face:       faceanalyzer.NewAnalyzer(model, cfg.Risk),
		Advice:     advice.NewEngine(),
		Replies:    reply.NewGenerator(),
		Fusion:     fusion.NewEngine(),
		Clock:      application.SystemClock{},
		Log:        logger,
		StoreMedia: cfg.Privacy.StoreMedia,
	}
	if store != nil {
		svc.Media = store
	}

	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	if store != nil {
		checkers["media_store"] = &middleware.MediaStoreHealthChecker{Store: store}
	}

	limits := httpserver.Limits{
		MaxAudioBytes:   int64(cfg.Limits.MaxAudioMB) << 20,
		MaxImageBytes:   int64(cfg.Limits.MaxImageMB) << 20,
		MaxMessageChars: cfg.Limits.MaxMessageChars,
		AudioExtensions: cfg.Limits.AudioExtensions,
	}

	var handler http.Handler = httpserver.NewRouter(svc, limits, middleware.HealthHandler(checkers))
	handler = middleware.APIKeyAuth(cfg.Server.APIKeys)(handler)
	handler = middleware.RateLimitMiddleware(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillPerSec)(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	return nil
}

func connectDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.Driver == "mysql" {
		return mysqlp.Connect(ctx, cfg.MySQLDSN())
	}
	return postgresp.Connect(ctx, cfg.PostgresDSN())
}
