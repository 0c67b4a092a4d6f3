package main

import (
	"flag"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/adam/adam/internal/api"
	"github.com/adam/adam/internal/config"
	"github.com/adam/adam/internal/dispatch"
	"github.com/adam/adam/internal/history"
	"github.com/adam/adam/internal/manager"
	"github.com/adam/adam/internal/scheduler"
	"github.com/adam/adam/internal/store"
	"github.com/adam/adam/internal/types"
	"github.com/adam/adam/internal/version"
	"github.com/adam/adam/internal/webui"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Create log buffer for web UI (captures last 1000 log entries)
	logBuffer := webui.NewLogBuffer(1000)

	// Setup logger with multi-writer (stdout + log buffer)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logLevelParsed, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		logLevelParsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevelParsed)

	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	logger := zerolog.New(multiWriter).With().
		Timestamp().
		Str("version", version.GetVersion()).
		Str("commit", version.GetCommit()).
		Logger()

	logger.Info().Msg("Starting ADAM")

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("config_path", *configPath).
			Msg("Failed to load configuration")
	}

	logger.Info().
		Str("alertmanager_url", cfg.Alertmanager.URL).
		Str("alerts_dir", cfg.Storage.AlertsDir).
		Int("port", cfg.Server.Port).
		Msg("Configuration loaded")

	// Create the alert store
	alertStore, err := store.NewFileStore(cfg.Storage.AlertsDir, logger)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("alerts_dir", cfg.Storage.AlertsDir).
			Msg("Failed to open alert store")
	}

	// Wire the lifecycle components
	dispatcher := dispatch.NewDispatcher(cfg.Alertmanager.URL, cfg.Alertmanager.Timeout, logger)
	sched := scheduler.NewScheduler(alertStore, dispatcher, logger)
	mgr := manager.NewManager(alertStore, dispatcher, sched, logger)
	hist := history.NewHistory(cfg.Storage.HistoryFile, logger)

	// Re-arm timers for alerts tracked before a restart. Their durations
	// restart from now; the store is the source of truth either way.
	if records, err := alertStore.List(); err == nil {
		for _, rec := range records {
			if rec.Status == types.StatusActive && rec.AutoResolveScheduled {
				sched.Schedule(rec.ID, rec.Duration)
				logger.Info().
					Str("alert_id", rec.ID).
					Str("summary", rec.Summary).
					Msg("Re-armed auto-resolve timer after restart")
			}
		}
	}

	// Start API server with Web UI
	apiServer := api.NewServer(mgr, hist, cfg.Alertmanager.URL, logger, strconv.Itoa(cfg.Server.Port))
	apiServer.SetLogBuffer(logBuffer)
	apiServer.SetVersion(version.GetVersion())

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("API server error")
		}
	}()

	logger.Info().
		Int("port", cfg.Server.Port).
		Msg("Web UI available")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info().Msg("ADAM running, press Ctrl+C to stop")

	<-sigChan
	logger.Info().Msg("Shutting down...")

	sched.Stop()
	logger.Info().Msg("ADAM stopped")
}
