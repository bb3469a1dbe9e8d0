package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v2"

	"github.com/hazyhaar/gazetteer/pkg/api"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Serve the MCP tools over stdio",
		Action: runMCP,
	}
}

func runMCP(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close(logger)

	watchReload(c.Context, a.reg, logger)

	logger.Info("mcp stdio server starting")
	return server.ServeStdio(api.NewMCPServer(a.svc, version), server.WithStdioContextFunc(api.StdioContext))
}
