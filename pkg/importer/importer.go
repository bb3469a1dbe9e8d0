// Package importer turns a dataset JSON (local file, http(s) URL or a ZIP
// holding one) into a dataset directory the registry can load: a gob
// snapshot, a copy of the JSON and manifest.yaml.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
)

// ErrEmptyDataset is returned when the source holds no usable entity.
var ErrEmptyDataset = errors.New("dataset has no entities")

// Options describes one import.
type Options struct {
	Source   string // http(s) URL or local path; .zip archives are unpacked
	OutDir   string
	ID       string // default "axixa"
	Version  string // default: today's date
	Locality string
	License  string
	Logger   *slog.Logger
}

// Report summarizes a finished import.
type Report struct {
	Manifest *gazetteer.Manifest
	Entities int
	Counts   map[gazetteer.Category]int
}

// Import fetches, validates and writes the dataset. Nothing is written to
// OutDir unless the source decodes and holds at least one entity.
func Import(ctx context.Context, opts Options) (*Report, error) {
	if opts.Source == "" {
		return nil, errors.New("import: source is required")
	}
	if opts.OutDir == "" {
		return nil, errors.New("import: output directory is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ID == "" {
		opts.ID = "axixa"
	}
	if opts.Version == "" {
		opts.Version = time.Now().Format("2006-01-02")
	}

	work, err := os.MkdirTemp("", "gazetteer-import-*")
	if err != nil {
		return nil, fmt.Errorf("import: temp dir: %w", err)
	}
	defer os.RemoveAll(work)

	src, err := fetch(ctx, opts.Source, work)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("import: open source: %w", err)
	}
	doc, err := gazetteer.DecodeDocument(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	ix := gazetteer.BuildIndex(doc.Dataset)
	if ix.Len() == 0 {
		return nil, fmt.Errorf("import %s: %w", opts.Source, ErrEmptyDataset)
	}
	counts := make(map[gazetteer.Category]int)
	for _, c := range gazetteer.Categories() {
		if n := ix.Count(c); n > 0 {
			counts[c] = n
		}
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("import: create output dir: %w", err)
	}
	// data.json first: the snapshot must not be older than the JSON it
	// was built from, or the next load would prefer the JSON.
	if err := copyFile(src, filepath.Join(opts.OutDir, "data.json")); err != nil {
		return nil, fmt.Errorf("import: copy source: %w", err)
	}
	snapTmp := filepath.Join(opts.OutDir, gazetteer.SnapshotFile+".tmp")
	if err := gazetteer.SaveSnapshot(doc, snapTmp); err != nil {
		os.Remove(snapTmp)
		return nil, fmt.Errorf("import: %w", err)
	}
	if err := os.Rename(snapTmp, filepath.Join(opts.OutDir, gazetteer.SnapshotFile)); err != nil {
		return nil, fmt.Errorf("import: install snapshot: %w", err)
	}

	m := &gazetteer.Manifest{
		ID:       opts.ID,
		Version:  opts.Version,
		Source:   opts.Source,
		License:  opts.License,
		Locality: opts.Locality,
		DataFile: "data.json",
	}
	if isURL(opts.Source) {
		m.Source = "remote"
		m.SourceURL = opts.Source
	}
	if err := gazetteer.WriteManifest(filepath.Join(opts.OutDir, gazetteer.ManifestFile), m); err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	opts.Logger.Info("dataset imported",
		"dataset", m.ID,
		"version", m.Version,
		"entities", ix.Len(),
		"out", opts.OutDir,
	)
	return &Report{Manifest: m, Entities: ix.Len(), Counts: counts}, nil
}

// fetch makes the source available as a local JSON file.
func fetch(ctx context.Context, source, work string) (string, error) {
	path := source
	if isURL(source) {
		path = filepath.Join(work, "source"+filepath.Ext(strings.SplitN(source, "?", 2)[0]))
		if err := downloadFile(ctx, source, path); err != nil {
			return "", err
		}
	}
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return path, nil
	}

	return extractJSON(path, work)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
