package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"StonksPoller/internal/collector"
	"StonksPoller/internal/config"
	"StonksPoller/internal/notifier"
	"StonksPoller/internal/recorder"
	"StonksPoller/internal/scheduler"
	"StonksPoller/internal/version"

	"golang.org/x/sync/errgroup"
)

func main() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	configPath := flag.String("config", defaultPath, "path to config file")
	once := flag.Bool("once", false, "run a single tick and exit")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "config", *configPath)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting poller",
		"version", version.String(),
		"config", *configPath,
	)

	// Init fetcher
	symbols := cfg.DataSource.SymbolList()
	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = collector.NewSampleFetcher(symbols)
	} else {
		fetcher = collector.NewRapidAPIFetcher(
			cfg.DataSource.BaseURL,
			cfg.DataSource.Host,
			cfg.DataSource.APIKey,
			cfg.Proxy,
			cfg.DataSource.Timeout,
		)
	}
	logger.Info("data source configured", "source", fetcher.Name(), "symbols", len(symbols))

	col := collector.NewCollector(fetcher, cfg.DataSource.PauseDuration(), collector.WithLogger(logger))

	// Init recorder
	if cfg.Database.Driver == config.DriverSQLite {
		if err := os.MkdirAll(cfg.Database.SQLiteDir, 0o755); err != nil {
			logger.Error("failed to create sqlite dir", "dir", cfg.Database.SQLiteDir, "error", err)
			os.Exit(1)
		}
	}
	rec, err := recorder.New(cfg.Database, logger)
	if err != nil {
		logger.Error("failed to init recorder", "error", err)
		os.Exit(1)
	}
	logger.Info("recorder configured", "driver", rec.Name())

	sched, err := scheduler.ParseSchedule(cfg.Schedule.Interval, cfg.Schedule.Spec)
	if err != nil {
		logger.Error("invalid schedule", "error", err)
		os.Exit(1)
	}
	s := scheduler.NewScheduler(col, recorder.NewUploader(rec, logger), symbols, cfg.Target.Target(), sched, logger)

	var tn *notifier.TelegramNotifier
	if cfg.Telegram.Enabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		s.Notifier = tn
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		res := s.Tick(ctx)
		if !res.Outcome.OK() {
			os.Exit(1)
		}
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The loop ending for any reason stops the command poller too.
		defer cancel()
		return s.Run(gctx)
	})
	if tn != nil {
		g.Go(func() error {
			logger.Info("telegram polling started")
			return tn.StartPolling(gctx, s.HandleCommand)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("poller stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("poller stopped")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
