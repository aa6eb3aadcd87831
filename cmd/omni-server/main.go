package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/adapters/catalog"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/adapters/httpapi"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/adapters/notify"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/buildinfo"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/config"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

func main() {
	// .env optionnel, pratique en dev pour OPENAI_API_KEY & co.
	_ = godotenv.Load()

	configPath := flag.String("config", "omni-reader.toml", "Chemin du fichier de config TOML (optionnel)")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "omni-server").Logger()
	log.Logger = logger

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("config", *configPath).Msg("failed to load config")
	}

	logger.Info().Interface("build", buildinfo.Current()).Str("db", cfg.DBPath).Msg("starting")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db")
	}
	defer func() { _ = db.Close() }()

	bus := memorybus.New()
	defer bus.Close()
	libraryRepo := sqlite.NewLibraryRepository(db.SQL)
	settingsRepo := sqlite.NewSettingsRepository(db.SQL, logger.With().Str("component", "settings-store").Logger())
	cacheRepo := sqlite.NewCacheRepository(db.SQL)

	librarySvc := app.NewLibraryService(libraryRepo, bus)
	settingsSvc := app.NewSettingsService(settingsRepo, bus)
	transferSvc := app.NewTransferService(logger.With().Str("component", "transfer").Logger(), libraryRepo, settingsRepo)
	searchSvc := app.NewCatalogSearchService(
		logger.With().Str("component", "search").Logger(),
		cacheRepo,
		catalog.NewJikanProvider(),
		catalog.NewKitsuProvider(),
		catalog.NewAniListProvider(),
		catalog.NewCustomProvider(settingsSvc.GetApp),
	)
	aichatSvc := app.NewAIChatService(settingsSvc.GetApp, cfg.AIAPIKey)

	notifier := notify.New(cfg.NtfyTopic)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bascule automatique ongoing -> completed, cadencée par cron.
	reconciler := app.NewStatusReconciler(logger.With().Str("component", "reconciler").Logger(), libraryRepo, notifier)
	defer reconciler.Stop()
	if s, err := settingsSvc.GetApp(ctx); err == nil {
		if err := reconciler.Rearm(shutdownCtx, s.AutoUpdateStatus, s.AutoUpdateFrequency); err != nil {
			logger.Error().Err(err).Msg("failed to arm reconciler")
		}
	}

	// Rappels de lecture: un seul timer, réarmé après chaque déclenchement
	// et à chaque changement de settings notifications.
	reminder := app.NewReminderScheduler(logger.With().Str("component", "reminder").Logger(), libraryRepo, settingsRepo, notifier)
	if fireAt, armed, err := reminder.Arm(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to arm reminder")
	} else if armed {
		logger.Info().Time("fire_at", fireAt).Msg("reminder armed")
	}

	srv := httpapi.NewServer(
		logger,
		librarySvc,
		settingsSvc,
		transferSvc,
		searchSvc,
		aichatSvc,
		bus,
		notifier,
		func(updated domain.AppSettings) {
			if err := reconciler.Rearm(shutdownCtx, updated.AutoUpdateStatus, updated.AutoUpdateFrequency); err != nil {
				logger.Error().Err(err).Msg("failed to rearm reconciler")
			}
		},
		func(domain.NotificationSettings) {
			if _, _, err := reminder.Arm(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to rearm reminder")
			}
		},
	)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}
