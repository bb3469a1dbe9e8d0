package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hazyhaar/gazetteer/pkg/api"
	"github.com/hazyhaar/gazetteer/pkg/chassis"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP API (and /mcp endpoint)",
		Action: runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.addr",
			},
		},
	}
}

func runServe(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	router := api.NewRouter(a.svc, api.RouterOptions{
		RatePerMinute:  cfg.API.RatePerMinute,
		RateBurst:      cfg.API.RateBurst,
		AllowedOrigins: cfg.API.AllowedOrigins,
		MCP:            api.NewMCPServer(a.svc, version),
	})

	srv, err := chassis.New(chassis.Config{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		HTTP3:        cfg.Server.HTTP3,
		CertFile:     cfg.Server.CertFile,
		KeyFile:      cfg.Server.KeyFile,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	// SIGHUP: hot reload dataset.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	watchReload(ctx, a.reg, logger)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
