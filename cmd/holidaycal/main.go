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

	"holidaycal/internal/cache"
	"holidaycal/internal/config"
	"holidaycal/internal/feed"
	appLog "holidaycal/internal/log"
	"holidaycal/internal/pipeline"
	"holidaycal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	appLog.Info("holidaycal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"upstream_url", conf.UpstreamURL,
		"calendar_name", conf.CalendarName,
		"cache_ttl", conf.CacheTTL,
		"sweep_cron", conf.SweepCron,
		"once", flags.once,
	)

	store := cache.New()
	fetcher := feed.NewFetcher(store, conf.CacheTTLDuration())
	pipe := pipeline.New(fetcher)

	if flags.once {
		runOnce(conf, pipe)
		return
	}

	// Recurring cache sweep, owned by this process lifecycle. Without a
	// working schedule, lazy expiration-on-read remains the only
	// eviction path, which is acceptable for the handful of feed keys.
	stopSweeper, err := store.StartSweeper(conf.SweepCron)
	if err != nil {
		appLog.Error("cache sweeper disabled", err, "schedule", conf.SweepCron)
		stopSweeper = func() {}
	}
	defer stopSweeper()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(conf, pipe)
	httpServer := &http.Server{
		Addr:              conf.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server stopped", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	appLog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown", err)
	}
	appLog.Info("holidaycal exiting")
}

// runOnce executes a single pipeline run and writes the serialized
// calendar to stdout.
func runOnce(conf *config.Config, pipe *pipeline.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := pipe.ComputeCalendar(ctx, conf.UpstreamURL)
	if err != nil {
		appLog.Error("pipeline run failed", err)
		os.Exit(1)
	}
	if _, err := os.Stdout.Write(feed.Serialize(events, conf.CalendarName)); err != nil {
		appLog.Error("failed to write calendar", err)
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/holidaycal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one pipeline cycle, print the calendar to stdout and exit")

	flag.Parse()

	return cfg
}
