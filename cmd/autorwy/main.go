package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/meltinglava/enor-autorwy/internal/api"
	"github.com/meltinglava/enor-autorwy/internal/config"
	"github.com/meltinglava/enor-autorwy/internal/runway"
	"github.com/meltinglava/enor-autorwy/internal/rwyfile"
	"github.com/meltinglava/enor-autorwy/internal/selection"
	"github.com/meltinglava/enor-autorwy/internal/storage/sqlite"
	"github.com/meltinglava/enor-autorwy/internal/weather"
	"github.com/meltinglava/enor-autorwy/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	once := flag.Bool("once", false, "Run a single update and exit even when the HTTP server is enabled")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting enor-autorwy",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Build the airport registry once, with policies assigned from config
	registry, err := runway.LoadRegistry(cfg.Airports, log)
	if err != nil {
		log.Error("Failed to load runway database", logger.Error(err))
		os.Exit(1)
	}

	// Manual selections: interactive prompt in CLI mode, configured
	// default otherwise
	var provider runway.DecisionProvider
	if cfg.Confirm.Interactive && !cfg.Server.Enabled {
		provider = &promptProvider{}
	} else {
		provider = runway.StaticProvider{ConfigurationName: cfg.Confirm.DefaultConfiguration}
	}

	engine := runway.NewEngine(registry, provider, log)

	weatherService := weather.NewService(weather.Config{
		NorwayFeedURL:          cfg.Weather.NorwayFeedURL,
		StationFeedURLTemplate: cfg.Weather.StationFeedURLTemplate,
		RequestTimeoutSeconds:  cfg.Weather.RequestTimeoutSeconds,
		MaxRetries:             cfg.Weather.MaxRetries,
		CacheExpiryMinutes:     cfg.Weather.CacheExpiryMinutes,
	}, log)

	store := rwyfile.NewStore(cfg.RwyStore.Dir, log)

	var history *sqlite.DecisionStorage
	if cfg.Storage.Enabled {
		history, err = sqlite.NewDecisionStorage(cfg.Storage.SQLitePath, log)
		if err != nil {
			log.Error("Failed to open decision history storage", logger.Error(err))
			os.Exit(1)
		}
		defer history.Close()
		log.Info("Using decision history storage", logger.String("path", cfg.Storage.SQLitePath))
	}

	selectionService := selection.NewService(registry, engine, weatherService, store, history, log)

	// Initial update run
	decisions, err := selectionService.Run()
	if err != nil {
		log.Error("Update run finished with errors", logger.Error(err))
	}
	reportDecisions(decisions, log)

	if !cfg.Server.Enabled || *once {
		return
	}

	// Server mode: serve the API and re-run on every feed expiry
	router := api.NewRouter(selectionService, weatherService, registry, log)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", logger.Error(err))
		}
	}()

	interval := time.Duration(cfg.Weather.CacheExpiryMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			decisions, err := selectionService.Run()
			if err != nil {
				log.Error("Update run finished with errors", logger.Error(err))
			}
			reportDecisions(decisions, log)
		case sig := <-stop:
			log.Info("Shutting down", logger.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Error("HTTP server shutdown failed", logger.Error(err))
			}
			return
		}
	}
}

// reportDecisions logs every decision that must be surfaced to the
// operator; nominal selections stay at debug level.
func reportDecisions(decisions []runway.Decision, log *logger.Logger) {
	for _, d := range decisions {
		fields := []logger.Field{
			logger.String("airport", d.ICAO),
			logger.String("runways", strings.Join(d.Runways, ", ")),
			logger.String("outcome", string(d.Outcome)),
		}
		if d.Mode != "" {
			fields = append(fields, logger.String("mode", string(d.Mode)))
		}
		if len(d.Rationale) > 0 {
			fields = append(fields, logger.Strings("rationale", d.Rationale))
		}
		if d.Suggested != "" {
			fields = append(fields, logger.String("suggested", d.Suggested))
		}

		if d.Outcome.Advisory() {
			log.Info("Runway decision", fields...)
		} else {
			log.Debug("Runway decision", fields...)
		}
	}
}
