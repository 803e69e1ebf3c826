package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/feedsync/internal/app"
	"github.com/glabrego/feedsync/internal/config"
	"github.com/glabrego/feedsync/internal/feedapi"
	"github.com/glabrego/feedsync/internal/logging"
	"github.com/glabrego/feedsync/internal/storage"
	"github.com/glabrego/feedsync/internal/tui"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("log setup error: %v", err)
	}
	defer closeLog()

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify FEEDSYNC_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := feedapi.NewClient(cfg.ServerURL, nil, feedapi.Options{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Timeout:           cfg.RequestTimeout,
		BreakerFailures:   cfg.BreakerFailures,
		BreakerTimeout:    cfg.BreakerTimeout,
		Logger:            logger,
	})
	service := app.NewService(client, repo, logger)

	cacheLoadStart := time.Now()
	cached, err := service.ListCached(ctx)
	if err != nil {
		log.Fatalf("cannot load cached subscriptions: %v", err)
	}
	logger.Info("cache loaded", "count", len(cached), "duration", time.Since(cacheLoadStart))

	lastSync, ok, err := repo.LastSync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not read last sync time (%v)\n", err)
	}
	if !ok {
		lastSync = time.Time{}
	}

	model := tui.NewModel(service, cached, tui.Options{
		AddWatchdog:     cfg.AddWatchdog(),
		LoadWatchdog:    cfg.LoadWatchdog(),
		DeleteWatchdog:  cfg.DeleteWatchdog(),
		NotificationTTL: cfg.NotificationTTL(),
		ExitTransition:  cfg.ExitTransition,
		RequestTimeout:  cfg.RequestTimeout,
		LastSync:        lastSync,
		Logger:          logger,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
