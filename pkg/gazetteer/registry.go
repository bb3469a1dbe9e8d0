package gazetteer

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

var emptyIndex = BuildIndex(nil)

// Registry owns the published index of one dataset directory.
// Readers get the current *Index without locking; Load builds a new index
// and swaps it in, so in-flight queries keep the one they started with.
type Registry struct {
	dir    string
	logger *slog.Logger

	loadMu   sync.Mutex
	gen      atomic.Uint64
	current  atomic.Pointer[Index]
	manifest atomic.Pointer[Manifest]
}

// NewRegistry creates an empty registry for the given dataset directory.
func NewRegistry(dir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{dir: dir, logger: logger}
	r.current.Store(emptyIndex)
	return r
}

// Load reads the dataset directory and publishes a fresh index.
// On error the previously published index stays in place.
func (r *Registry) Load() error {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	m, doc, err := LoadDataset(r.dir)
	if err != nil {
		return err
	}
	ix := r.publish(BuildDocumentIndex(doc))
	r.manifest.Store(m)

	r.logger.Info("dataset loaded",
		"dataset", m.ID,
		"version", m.Version,
		"entities", ix.Len(),
		"history", len(ix.History()) > 0,
		"generation", ix.Generation(),
	)
	return nil
}

// Reload is Load under the name used by the SIGHUP handler.
func (r *Registry) Reload() error {
	return r.Load()
}

// Swap publishes an index built elsewhere and returns the published copy.
func (r *Registry) Swap(ix *Index) *Index {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()
	return r.publish(ix)
}

func (r *Registry) publish(ix *Index) *Index {
	if ix == nil {
		ix = emptyIndex
	}
	cp := *ix
	cp.generation = r.gen.Add(1)
	r.current.Store(&cp)
	return &cp
}

// Index returns the currently published index. It is never nil.
func (r *Registry) Index() *Index {
	return r.current.Load()
}

// Manifest returns the manifest of the last successful load, or nil.
func (r *Registry) Manifest() *Manifest {
	return r.manifest.Load()
}

// Resolve runs Resolve against the current index.
func (r *Registry) Resolve(query string, s Scoring) Result {
	return Resolve(r.Index(), query, s)
}

// CategoryInfo summarizes one category of the current index.
type CategoryInfo struct {
	Category  Category `json:"category"`
	SourceKey string   `json:"source_key"`
	Entities  int      `json:"entities"`
}

// ListCategories returns every category with its entity count.
func (r *Registry) ListCategories() []CategoryInfo {
	ix := r.Index()
	out := make([]CategoryInfo, 0, numCategories)
	for _, c := range Categories() {
		out = append(out, CategoryInfo{Category: c, SourceKey: c.SourceKey(), Entities: ix.Count(c)})
	}
	return out
}
