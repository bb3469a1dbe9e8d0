package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hazyhaar/gazetteer/pkg/api"
	"github.com/hazyhaar/gazetteer/pkg/config"
	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
	"github.com/hazyhaar/gazetteer/pkg/journal"
)

func loadConfig(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, config.NewLogger(cfg.Log), nil
}

// app bundles what serve and mcp share.
type app struct {
	reg     *gazetteer.Registry
	svc     *api.Service
	journal *journal.Recorder
}

// newApp loads the dataset, opens the journal and builds the service.
// A missing dataset is not fatal: the index stays empty until a reload.
func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	reg := gazetteer.NewRegistry(cfg.Dataset.Dir, logger)
	if err := reg.Load(); err != nil {
		if !errors.Is(err, gazetteer.ErrNoDataset) {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		logger.Warn("no dataset yet, serving an empty index", "dir", cfg.Dataset.Dir)
	}

	a := &app{reg: reg}
	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return nil, err
		}
		a.journal = journal.NewRecorder(store, cfg.Journal.Buffer, logger)
		logger.Info("journal opened", "path", cfg.Journal.Path)
	}

	svc, err := api.NewService(reg, api.Options{
		Scoring:        cfg.Scoring.ToScoring(),
		Locality:       cfg.Locality.Name,
		MaxQueryLength: cfg.API.MaxQueryLength,
		BatchMax:       cfg.API.BatchMax,
		BatchWorkers:   cfg.API.BatchWorkers,
		CacheTTL:       cfg.API.CacheTTL,
		Journal:        a.journal,
		Logger:         logger,
	})
	if err != nil {
		a.close(logger)
		return nil, err
	}
	a.svc = svc
	return a, nil
}

func (a *app) close(logger *slog.Logger) {
	if a.svc != nil {
		a.svc.Close()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logger.Warn("journal close", "error", err)
		}
	}
}

// watchReload reloads the dataset on SIGHUP until ctx is done.
// A failed reload keeps the previous index.
func watchReload(ctx context.Context, reg *gazetteer.Registry, logger *slog.Logger) {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		defer signal.Stop(sighup)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sighup:
				logger.Info("SIGHUP received, reloading dataset")
				if err := reg.Reload(); err != nil {
					logger.Error("reload failed, keeping previous index", "error", err)
				}
			}
		}
	}()
}
