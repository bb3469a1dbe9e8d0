package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
	"github.com/hazyhaar/gazetteer/pkg/importer"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Build a dataset directory from a JSON file, URL or ZIP archive",
		ArgsUsage: "<source>",
		Action:    runImport,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory (default: dataset.dir)"},
			&cli.StringFlag{Name: "id", Usage: "Dataset id", Value: "axixa"},
			&cli.StringFlag{Name: "dataset-version", Usage: "Dataset version (default: today)"},
			&cli.StringFlag{Name: "license", Usage: "License identifier"},
			&cli.StringFlag{Name: "locality", Usage: "Locality stored in the manifest (default: locality.name)"},
		},
	}
}

func runImport(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("import: expected exactly one source, got %d", c.NArg())
	}
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = cfg.Dataset.Dir
	}
	locality := c.String("locality")
	if locality == "" {
		locality = cfg.Locality.Name
	}

	rep, err := importer.Import(c.Context, importer.Options{
		Source:   c.Args().First(),
		OutDir:   out,
		ID:       c.String("id"),
		Version:  c.String("dataset-version"),
		Locality: locality,
		License:  c.String("license"),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported %s %s: %d entities into %s\n", rep.Manifest.ID, rep.Manifest.Version, rep.Entities, out)
	for _, cat := range gazetteer.Categories() {
		if n, ok := rep.Counts[cat]; ok {
			fmt.Printf("  %-22s %d\n", cat.SourceKey(), n)
		}
	}
	fmt.Println("Send SIGHUP to a running server to load it.")
	return nil
}
