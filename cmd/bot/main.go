package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/user/weatherbot/internal/config"
	"github.com/user/weatherbot/internal/notifier"
	"github.com/user/weatherbot/internal/scheduler"
	"github.com/user/weatherbot/internal/storage"
	"github.com/user/weatherbot/internal/telegram"
	"github.com/user/weatherbot/internal/weather"
	"github.com/user/weatherbot/pkg/logger"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		// Try to initialize basic logger for error output
		logger.Init(true, "")
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	debug := cfg.Log.Level == "debug"
	if err := logger.Init(debug, cfg.Log.File); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logger.Info().Msg("Starting Weather Telegram Bot")

	// Initialize database
	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	store := storage.NewPreferenceStore(db)
	logger.Info().Str("path", cfg.Database.Path).Msg("Database initialized")

	// Initialize weather client
	wxClient := weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Lang, cfg.WeatherTimeout())

	// Initialize Telegram bot
	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.Debug, store, wxClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	// Create scheduler and delivery notifier
	sched := scheduler.New()
	notify := notifier.New(store, sched, wxClient, bot, cfg.Scheduler.AlertCron)
	bot.AttachNotifier(notify)

	// Rebuild the job set from persisted preferences. This must complete
	// before the bot starts accepting commands, otherwise existing
	// schedules would appear inactive.
	if err := notify.Reconcile(); err != nil {
		logger.Fatal().Err(err).Msg("Startup reconciliation failed")
	}
	if err := notify.StartPeriodicReconcile(cfg.Scheduler.ReconcileInterval); err != nil {
		logger.Error().Err(err).Msg("Failed to register periodic reconciliation")
	}
	sched.Start()

	// Set up HTTP router for health checks
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.ServerAddress(),
		Handler: r,
	}

	go func() {
		logger.Info().Str("address", cfg.ServerAddress()).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Start Telegram bot
	bot.Start()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("Shutting down...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop scheduler (waits for in-flight jobs)
	sched.Stop()

	// Stop HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop Telegram bot
	bot.Stop()

	logger.Info().Msg("Shutdown complete")
}
