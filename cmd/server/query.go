package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hazyhaar/gazetteer/pkg/api"
	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Resolve one question against a dataset and print the JSON answer",
		ArgsUsage: "<question...>",
		Action:    runQuery,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dataset", Aliases: []string{"d"}, Usage: "Dataset directory (default: dataset.dir)"},
			&cli.BoolFlag{Name: "ask", Usage: "Answer as the assistant front end would (greetings, credits, payload)"},
		},
	}
}

func runQuery(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("query: question is required")
	}
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	dir := c.String("dataset")
	if dir == "" {
		dir = cfg.Dataset.Dir
	}

	reg := gazetteer.NewRegistry(dir, logger)
	if err := reg.Load(); err != nil {
		return err
	}
	svc, err := api.NewService(reg, api.Options{
		Scoring:        cfg.Scoring.ToScoring(),
		Locality:       cfg.Locality.Name,
		MaxQueryLength: cfg.API.MaxQueryLength,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	var out any
	if c.Bool("ask") {
		out, err = svc.Ask(c.Context, question)
	} else {
		out, err = svc.Resolve(c.Context, question)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
