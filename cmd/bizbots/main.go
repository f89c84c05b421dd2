package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/bizbots/config"
	"github.com/alejandrodnm/bizbots/internal/adapters/env"
	"github.com/alejandrodnm/bizbots/internal/adapters/notify"
	"github.com/alejandrodnm/bizbots/internal/adapters/publicapis"
	"github.com/alejandrodnm/bizbots/internal/adapters/storage"
	"github.com/alejandrodnm/bizbots/internal/discovery"
	"github.com/alejandrodnm/bizbots/internal/fleet"
	"github.com/alejandrodnm/bizbots/internal/monitor"
	"github.com/alejandrodnm/bizbots/internal/revenue"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "deploy bots and exit without monitoring")
	dryRun := flag.Bool("dry-run", false, "do not persist anything to SQLite")
	discover := flag.Bool("discover", false, "run public API discovery and print the result")
	report := flag.Bool("report", false, "print the persisted revenue report and exit")
	table := flag.Bool("table", false, "print full deployment table (default: compact 1-line)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("bizbots starting",
		"config", *configPath,
		"countries", len(cfg.Fleet.Countries),
		"dry_run", *dryRun,
		"once", *once,
		"discover", *discover,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store *storage.SQLiteStorage
	if !*dryRun {
		store, err = storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			logger.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	console := notify.NewConsole(*table)

	if *report {
		runReport(ctx, store, console)
		return
	}

	if *discover {
		runDiscovery(ctx, cfg, store, console, logger)
	}

	tracker := revenue.NewTracker(logger)
	opts := []fleet.Option{fleet.WithLogger(logger)}
	if store != nil {
		opts = append(opts, fleet.WithStorage(store))
	}
	deployer := fleet.New(fleet.Config{
		RevenueMin: cfg.Fleet.RevenueMin,
		RevenueMax: cfg.Fleet.RevenueMax,
	}, env.NewCredentials(), tracker, opts...)

	deployments, err := deployer.DeployAll(ctx, cfg.Fleet.Countries)
	if err != nil {
		// solo la cancelación del contexto corta el despliegue
		logger.Warn("deployment interrupted", "err", err, "deployed", len(deployments))
		return
	}

	if err := console.NotifyDeployments(ctx, deployments, tracker.Total()); err != nil {
		logger.Warn("notifier error", "err", err)
	}
	logger.Info("deployment complete", "bots", len(deployments), "total_revenue", tracker.Total())

	if *once {
		return
	}

	mon := monitor.New(cfg.MonitorInterval(), logger)
	for _, d := range deployments {
		mon.Add(d.Bot)
	}

	if err := mon.Run(ctx); err != nil {
		logger.Error("monitor exited with error", "err", err)
		os.Exit(1)
	}

	logger.Info("bizbots stopped cleanly")
}

func runDiscovery(ctx context.Context, cfg *config.Config, store *storage.SQLiteStorage, console *notify.Console, logger *slog.Logger) {
	client := publicapis.NewClient(cfg.Discovery.BaseURL, cfg.DiscoveryTimeout(), cfg.Discovery.RatePerSec)

	var svc *discovery.Service
	if store != nil {
		svc = discovery.New(client, store, logger)
	} else {
		svc = discovery.New(client, nil, logger)
	}

	console.PrintFreeAPIs(svc.Discover(ctx, cfg.Discovery.Limit))
}

func runReport(ctx context.Context, store *storage.SQLiteStorage, console *notify.Console) {
	if store == nil {
		slog.Error("-report needs storage, drop -dry-run")
		os.Exit(1)
	}

	stats, err := store.GetRevenueStats(ctx)
	if err != nil {
		slog.Error("failed to get revenue stats", "err", err)
		os.Exit(1)
	}
	console.PrintRevenueReport(stats)

	bots, err := store.GetBots(ctx)
	if err != nil {
		slog.Error("failed to get bots", "err", err)
		os.Exit(1)
	}
	console.PrintBots(bots)

	apis, err := store.GetDiscovered(ctx)
	if err != nil {
		slog.Error("failed to get discovered APIs", "err", err)
		os.Exit(1)
	}
	console.PrintFreeAPIs(apis)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
