package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"badgesentry/config"
	"badgesentry/internal/analyzer"
	"badgesentry/internal/input/jsonl"
	"badgesentry/internal/logger"
	"badgesentry/internal/output/reportclickhouse"
	"badgesentry/internal/output/reporthttp"
	"badgesentry/internal/output/reportjson"
	"badgesentry/internal/permissions"
	"badgesentry/internal/rules"
	"badgesentry/internal/run"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("badgesentry.yml"); err == nil {
		return "badgesentry.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "badgesentry.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "badgesentry.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.BadgeSentry.Input.Events == "" {
		cfg.BadgeSentry.Input.Events = "events.jsonl"
	}

	if cfg.BadgeSentry.Permissions.Mode == "" {
		cfg.BadgeSentry.Permissions.Mode = "file"
	}
	if cfg.BadgeSentry.Permissions.File == "" {
		cfg.BadgeSentry.Permissions.File = "userprofile.json"
	}
	if cfg.BadgeSentry.Permissions.Redis.Addr == "" {
		cfg.BadgeSentry.Permissions.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.BadgeSentry.Permissions.Redis.KeyPrefix == "" {
		cfg.BadgeSentry.Permissions.Redis.KeyPrefix = "badgesentry:allowed"
	}

	if cfg.BadgeSentry.Output.Mode == "" {
		cfg.BadgeSentry.Output.Mode = "file"
	}
	if cfg.BadgeSentry.Output.File.Dir == "" {
		cfg.BadgeSentry.Output.File.Dir = "output"
	}
	if cfg.BadgeSentry.Output.ClickHouse.Database == "" {
		cfg.BadgeSentry.Output.ClickHouse.Database = "badgesentry"
	}

	if cfg.BadgeSentry.Watch.Interval <= 0 {
		cfg.BadgeSentry.Watch.Interval = 5 * time.Minute
	}
	if cfg.BadgeSentry.Metrics.Addr == "" {
		cfg.BadgeSentry.Metrics.Addr = "127.0.0.1:9321"
	}

	if cfg.BadgeSentry.Logging.Level == "" {
		cfg.BadgeSentry.Logging.Level = "info"
	}
}

func buildPermissionLookup(cfg *config.Config) (analyzer.PermissionLookup, func(), error) {
	switch cfg.BadgeSentry.Permissions.Mode {
	case "file":
		table, err := permissions.LoadTable(cfg.BadgeSentry.Permissions.File)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("Permission source: file (%s)", cfg.BadgeSentry.Permissions.File)
		return table, func() {}, nil
	case "redis":
		store, err := permissions.NewRedisStore(permissions.RedisConfig{
			Addr:      cfg.BadgeSentry.Permissions.Redis.Addr,
			Password:  cfg.BadgeSentry.Permissions.Redis.Password,
			DB:        cfg.BadgeSentry.Permissions.Redis.DB,
			KeyPrefix: cfg.BadgeSentry.Permissions.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("Permission source: redis (%s)", cfg.BadgeSentry.Permissions.Redis.Addr)
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Errorf("Failed to close redis permission store: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown permissions mode: %s", cfg.BadgeSentry.Permissions.Mode)
	}
}

func buildReportWriter(cfg *config.Config) (run.ReportWriter, error) {
	switch cfg.BadgeSentry.Output.Mode {
	case "file":
		w, err := reportjson.NewWriter(cfg.BadgeSentry.Output.File.Dir)
		if err != nil {
			return nil, err
		}
		logger.Infof("Output mode: file (%s)", cfg.BadgeSentry.Output.File.Dir)
		return w, nil
	case "http":
		w, err := reporthttp.NewWriter(reporthttp.Config{
			URL:     cfg.BadgeSentry.Output.HTTP.URL,
			Timeout: cfg.BadgeSentry.Output.HTTP.Timeout,
			Headers: cfg.BadgeSentry.Output.HTTP.Headers,
		})
		if err != nil {
			return nil, err
		}
		logger.Infof("Output mode: http (%s)", cfg.BadgeSentry.Output.HTTP.URL)
		return w, nil
	case "clickhouse":
		ch := cfg.BadgeSentry.Output.ClickHouse
		w, err := reportclickhouse.NewWriter(reportclickhouse.Config{
			URL:          ch.URL,
			Database:     ch.Database,
			TravelTable:  ch.TravelTable,
			CuriousTable: ch.CuriousTable,
			RoomsTable:   ch.RoomsTable,
			WatchTable:   ch.WatchTable,
			Username:     ch.Username,
			Password:     ch.Password,
			Timeout:      ch.Timeout,
			Headers:      ch.Headers,
		})
		if err != nil {
			return nil, err
		}
		logger.Infof("Output mode: clickhouse (%s/%s)", ch.URL, ch.Database)
		return w, nil
	default:
		return nil, fmt.Errorf("unknown output mode: %s", cfg.BadgeSentry.Output.Mode)
	}
}

func buildWatchlist(cfg *config.Config) (rules.Engine, error) {
	if !cfg.BadgeSentry.Watchlist.Enabled {
		return nil, nil
	}
	if strings.TrimSpace(cfg.BadgeSentry.Watchlist.Path) == "" {
		logger.Warnf("Watchlist enabled but watchlist.path is empty; rule tagging disabled")
		return nil, nil
	}
	engine, stats, err := rules.NewSigmaEngine(cfg.BadgeSentry.Watchlist.Path)
	if err != nil {
		return nil, err
	}
	logger.Infof("Watchlist rules loaded: loaded=%d skipped_complex=%d skipped_datasource=%d skipped_invalid=%d files=%d",
		stats.Loaded,
		stats.SkippedComplex,
		stats.SkippedDatasource,
		stats.SkippedInvalid,
		stats.TotalFiles,
	)
	if stats.Loaded == 0 {
		logger.Warnf("No compatible watchlist rules loaded; rule tagging is effectively disabled")
	}
	return engine, nil
}

func executeBatch(runner *run.Runner, eventsPath string) error {
	events, err := jsonl.LoadEvents(eventsPath)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	logger.Infof("Loaded %d events from %s", len(events), eventsPath)

	res := runner.Analyze(events)
	writeErr := runner.Write(res)
	fmt.Print(runner.Summary(res))
	return writeErr
}

func runService(args []string) {
	configArg := ""
	if len(args) > 0 {
		configArg = args[0]
	}

	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	if err := logger.Init(cfg.BadgeSentry.Logging.Enabled, cfg.BadgeSentry.Logging.Level, cfg.BadgeSentry.Logging.File, cfg.BadgeSentry.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("BadgeSentry starting")
	logger.Infof("Config loaded from: %s", configPath)

	perms, closePerms, err := buildPermissionLookup(cfg)
	if err != nil {
		logger.Errorf("Failed to build permission lookup: %v", err)
		log.Fatalf("Failed to build permission lookup: %v", err)
	}
	defer closePerms()

	engine, err := buildWatchlist(cfg)
	if err != nil {
		logger.Errorf("Failed to load watchlist rules: %v", err)
		log.Fatalf("Failed to load watchlist rules: %v", err)
	}

	writer, err := buildReportWriter(cfg)
	if err != nil {
		logger.Errorf("Failed to create report writer: %v", err)
		log.Fatalf("Failed to create report writer: %v", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Errorf("Failed to close report writer: %v", err)
		}
	}()

	runner := &run.Runner{Perms: perms, Engine: engine, Writer: writer}

	var metricsServer *http.Server
	if cfg.BadgeSentry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: cfg.BadgeSentry.Metrics.Addr, Handler: mux}
		go func() {
			logger.Infof("Metrics endpoint listening on %s", cfg.BadgeSentry.Metrics.Addr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	if !cfg.BadgeSentry.Watch.Enabled {
		err := executeBatch(runner, cfg.BadgeSentry.Input.Events)
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			metricsServer.Shutdown(shutdownCtx)
			cancel()
		}
		if err != nil {
			logger.Errorf("Run failed: %v", err)
			os.Exit(1)
		}
		logger.Infof("BadgeSentry finished")
		return
	}

	logger.Infof("Watch mode enabled, re-running every %s", cfg.BadgeSentry.Watch.Interval)
	if err := executeBatch(runner, cfg.BadgeSentry.Input.Events); err != nil {
		logger.Errorf("Run failed: %v", err)
	}

	ticker := time.NewTicker(cfg.BadgeSentry.Watch.Interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if err := executeBatch(runner, cfg.BadgeSentry.Input.Events); err != nil {
				logger.Errorf("Run failed: %v", err)
			}
		case <-sigCh:
			logger.Infof("Shutting down")
			if metricsServer != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				metricsServer.Shutdown(shutdownCtx)
				cancel()
			}
			logger.Infof("BadgeSentry stopped")
			return
		}
	}
}

func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	events := fs.String("events", "events.jsonl", "Badge event JSONL input path")
	profile := fs.String("permissions", "userprofile.json", "User permission JSON input path")
	outputDir := fs.String("output-dir", "output", "Directory for result JSON files")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := logger.Init(false, "", "", false); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}

	table, err := permissions.LoadTable(*profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load permissions: %v\n", err)
		return 1
	}

	writer, err := reportjson.NewWriter(*outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create report writer: %v\n", err)
		return 1
	}

	runner := &run.Runner{Perms: table, Writer: writer}
	if err := executeBatch(runner, *events); err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "run":
			runService(os.Args[2:])
			return
		case "analyze":
			os.Exit(runAnalyze(os.Args[2:]))
		default:
			// Backward-compatible mode: first arg is config path.
			runService(os.Args[1:])
			return
		}
	}

	runService(nil)
}
