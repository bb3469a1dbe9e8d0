// CLAUDE:SUMMARY Immutable per-category index of (search text, entity) pairs built once from a dataset.
package gazetteer

import (
	"encoding/json"
	"fmt"
)

// Dataset maps each category to its raw records in source order.
type Dataset map[Category][]RawRecord

type bucket struct {
	texts    []string
	entities []*Entity
}

// Index is the read-only gazetteer. Build a new one to change it.
type Index struct {
	buckets    [numCategories]bucket
	size       int
	generation uint64
	history    json.RawMessage
}

// BuildDocumentIndex is BuildIndex that also carries the document's history.
func BuildDocumentIndex(doc Document) *Index {
	ix := BuildIndex(doc.Dataset)
	ix.history = doc.History
	return ix
}

// History returns the dataset's raw history payload, or nil.
func (ix *Index) History() json.RawMessage {
	if ix == nil {
		return nil
	}
	return ix.history
}

// BuildIndex resolves every record and keeps dataset order per category.
// Records without a resolvable name are skipped.
func BuildIndex(ds Dataset) *Index {
	ix := &Index{}
	for _, c := range Categories() {
		recs := ds[c]
		b := bucket{
			texts:    make([]string, 0, len(recs)),
			entities: make([]*Entity, 0, len(recs)),
		}
		for _, rec := range recs {
			e, ok := NewEntity(c, rec)
			if !ok {
				continue
			}
			b.texts = append(b.texts, e.SearchText)
			b.entities = append(b.entities, e)
		}
		ix.buckets[c] = b
		ix.size += len(b.entities)
	}
	ix.check()
	return ix
}

func (ix *Index) check() {
	total := 0
	for c, b := range ix.buckets {
		if len(b.texts) != len(b.entities) {
			panic(fmt.Sprintf("gazetteer: index bucket %s has %d texts for %d entities",
				Category(c), len(b.texts), len(b.entities)))
		}
		total += len(b.entities)
	}
	if total != ix.size {
		panic(fmt.Sprintf("gazetteer: index size %d, buckets hold %d", ix.size, total))
	}
}

// Len returns the number of indexed entities.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return ix.size
}

// Count returns the number of entities in category c.
func (ix *Index) Count(c Category) int {
	if ix == nil || !c.Valid() {
		return 0
	}
	return len(ix.buckets[c].entities)
}

// First returns up to n entities of c in dataset order.
// The returned slice is a copy.
func (ix *Index) First(c Category, n int) []*Entity {
	if ix == nil || !c.Valid() || n <= 0 {
		return nil
	}
	ents := ix.buckets[c].entities
	if n > len(ents) {
		n = len(ents)
	}
	out := make([]*Entity, n)
	copy(out, ents[:n])
	return out
}

// Generation identifies the registry load that produced this index.
// Indexes built outside a registry report 0.
func (ix *Index) Generation() uint64 {
	if ix == nil {
		return 0
	}
	return ix.generation
}

func (ix *Index) bucket(c Category) bucket {
	return ix.buckets[c]
}
