// CLAUDE:SUMMARY Dataset loading from a manifest directory: gob snapshot first, JSON category map as fallback.
package gazetteer

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNoDataset is returned when a directory has no manifest.
var ErrNoDataset = errors.New("no dataset manifest")

const (
	ManifestFile = "manifest.yaml"
	SnapshotFile = "data.gob"
)

// HistoryKey is the dataset key holding the free-form town history.
const HistoryKey = "historia_axixa"

// Document is what a dataset directory holds: the category records plus
// the optional history payload, kept as raw JSON.
type Document struct {
	Dataset Dataset
	History json.RawMessage
}

// LoadDataset reads the manifest in dir, then data.gob unless the JSON data
// file named by the manifest was modified after it.
func LoadDataset(dir string) (*Manifest, Document, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(manifestPath); errors.Is(err, os.ErrNotExist) {
		return nil, Document{}, fmt.Errorf("%w in %s", ErrNoDataset, dir)
	}
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, Document{}, err
	}

	gobPath := filepath.Join(dir, SnapshotFile)
	jsonPath := filepath.Join(dir, m.DataFile)
	if snapshotCurrent(gobPath, jsonPath) {
		doc, err := LoadSnapshot(gobPath)
		if err != nil {
			return nil, Document{}, fmt.Errorf("dataset %s: %w", m.ID, err)
		}
		return m, doc, nil
	}

	f, err := os.Open(jsonPath)
	if err != nil {
		return nil, Document{}, fmt.Errorf("dataset %s: open data file: %w", m.ID, err)
	}
	defer f.Close()

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, Document{}, fmt.Errorf("dataset %s: %w", m.ID, err)
	}
	return m, doc, nil
}

// snapshotCurrent reports whether the gob snapshot exists and the JSON file
// is missing or not newer than it. Editing data.json after an import makes
// the next reload read the JSON.
func snapshotCurrent(gobPath, jsonPath string) bool {
	gi, err := os.Stat(gobPath)
	if err != nil {
		return false
	}
	ji, err := os.Stat(jsonPath)
	if err != nil {
		return true
	}
	return !ji.ModTime().After(gi.ModTime())
}

// DecodeDataset parses a JSON object whose category keys hold record arrays.
// Keys that are not categories (prompt text, history) are ignored.
func DecodeDataset(r io.Reader) (Dataset, error) {
	doc, err := DecodeDocument(r)
	return doc.Dataset, err
}

// DecodeDocument is DecodeDataset that also keeps the HistoryKey payload.
func DecodeDocument(r io.Reader) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return Document{}, fmt.Errorf("decode dataset: %w", err)
	}
	ds := make(Dataset)
	for _, c := range Categories() {
		// Source key first, English alias appended after it.
		for _, key := range []string{c.SourceKey(), c.String()} {
			raw, ok := top[key]
			if !ok {
				continue
			}
			var recs []RawRecord
			if err := json.Unmarshal(raw, &recs); err != nil {
				return Document{}, fmt.Errorf("decode category %q: %w", key, err)
			}
			ds[c] = append(ds[c], recs...)
		}
	}
	doc := Document{Dataset: ds}
	if h, ok := top[HistoryKey]; ok && string(h) != "null" {
		doc.History = h
	}
	return doc, nil
}

// snapshot keeps only the string fields the index reads, keyed by source
// key, and the history verbatim.
type snapshot struct {
	Records map[string][]map[string]string
	History []byte
}

var snapshotFields = func() []string {
	var fs []string
	fs = append(fs, nameFields...)
	fs = append(fs, addressFields...)
	return append(fs, descriptionFields...)
}()

// SaveSnapshot serializes the indexable fields and history of doc to a gob
// file at path.
func SaveSnapshot(doc Document, path string) error {
	snap := snapshot{
		Records: make(map[string][]map[string]string, len(doc.Dataset)),
		History: doc.History,
	}
	for c, recs := range doc.Dataset {
		rows := make([]map[string]string, 0, len(recs))
		for _, rec := range recs {
			row := make(map[string]string, len(snapshotFields))
			for _, k := range snapshotFields {
				if v := rec.first([]string{k}); v != "" {
					row[k] = v
				}
			}
			rows = append(rows, row)
		}
		snap.Records[c.SourceKey()] = rows
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}

// LoadSnapshot deserializes a gob file written by SaveSnapshot.
func LoadSnapshot(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return Document{}, fmt.Errorf("decode gob: %w", err)
	}

	ds := make(Dataset, len(snap.Records))
	for key, rows := range snap.Records {
		c, ok := ParseCategory(key)
		if !ok {
			continue
		}
		recs := make([]RawRecord, len(rows))
		for i, row := range rows {
			rec := make(RawRecord, len(row))
			for k, v := range row {
				rec[k] = v
			}
			recs[i] = rec
		}
		ds[c] = recs
	}
	doc := Document{Dataset: ds}
	if len(snap.History) > 0 {
		doc.History = json.RawMessage(snap.History)
	}
	return doc, nil
}
