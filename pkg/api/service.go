// CLAUDE:SUMMARY Service wraps the gazetteer registry with validation, a generation-keyed result cache, batch fan-out and the journal.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"github.com/patrickmn/go-cache"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
	"github.com/hazyhaar/gazetteer/pkg/journal"
	"github.com/hazyhaar/gazetteer/pkg/kit"
)

var (
	ErrEmptyQuery      = errors.New("pergunta vazia")
	ErrQueryTooLong    = errors.New("pergunta muito longa")
	ErrEmptyBatch      = errors.New("queries array is empty")
	ErrBatchTooLarge   = errors.New("too many queries")
	ErrUnknownCategory = errors.New("unknown category")
	ErrJournalDisabled = errors.New("journal disabled")
)

// Options configures a Service. Zero values fall back to the defaults
// noted on each field.
type Options struct {
	Scoring        gazetteer.Scoring // DefaultScoring when ListingSize is 0
	Locality       string            // map-link suffix; manifest locality when empty
	MaxQueryLength int               // 500
	BatchMax       int               // 100
	BatchWorkers   int               // 8
	CacheTTL       time.Duration     // 0 disables the result cache
	Journal        *journal.Recorder // nil disables journaling
	Logger         *slog.Logger
}

// Service answers questions against the registry's current index.
type Service struct {
	reg     *gazetteer.Registry
	opts    Options
	logger  *slog.Logger
	cache   *cache.Cache
	pool    *ants.Pool
	journal *journal.Recorder
}

// NewService builds a Service. Close releases its worker pool.
func NewService(reg *gazetteer.Registry, opts Options) (*Service, error) {
	if opts.Scoring.ListingSize == 0 {
		opts.Scoring = gazetteer.DefaultScoring()
	}
	if err := opts.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = 500
	}
	if opts.BatchMax <= 0 {
		opts.BatchMax = 100
	}
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = 8
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	pool, err := ants.NewPool(opts.BatchWorkers)
	if err != nil {
		return nil, fmt.Errorf("batch pool: %w", err)
	}

	s := &Service{
		reg:     reg,
		opts:    opts,
		logger:  opts.Logger,
		pool:    pool,
		journal: opts.Journal,
	}
	if opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return s, nil
}

// Close releases the batch worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Answer is the transport-facing form of a resolution.
type Answer struct {
	Query    string              `json:"query"`
	Outcome  gazetteer.Outcome   `json:"outcome"`
	Label    string              `json:"label,omitempty"`
	Category *gazetteer.Category `json:"category,omitempty"`
	Entity   *gazetteer.Entity   `json:"entity,omitempty"`
	Entities []*gazetteer.Entity `json:"entities,omitempty"`
	Score    float64             `json:"score"`
	MapLink  string              `json:"map_link,omitempty"`
}

func (s *Service) validate(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	if n := utf8.RuneCountInString(q); n > s.opts.MaxQueryLength {
		return "", fmt.Errorf("%w (max %d caracteres, got %d)", ErrQueryTooLong, s.opts.MaxQueryLength, n)
	}
	return q, nil
}

// Resolve validates and resolves one query.
func (s *Service) Resolve(_ context.Context, query string) (Answer, error) {
	q, err := s.validate(query)
	if err != nil {
		return Answer{}, err
	}
	return s.answer(q, s.resolve(q)), nil
}

// resolve consults the cache, keyed by index generation so a reload
// never serves results from the previous dataset.
func (s *Service) resolve(q string) gazetteer.Result {
	ix := s.reg.Index()
	if s.cache == nil {
		return gazetteer.Resolve(ix, q, s.opts.Scoring)
	}
	key := strconv.FormatUint(ix.Generation(), 10) + "\x00" + gazetteer.Normalize(q)
	if v, ok := s.cache.Get(key); ok {
		return v.(gazetteer.Result)
	}
	r := gazetteer.Resolve(ix, q, s.opts.Scoring)
	s.cache.Set(key, r, cache.DefaultExpiration)
	return r
}

func (s *Service) answer(q string, r gazetteer.Result) Answer {
	a := Answer{
		Query:    q,
		Outcome:  r.Outcome,
		Label:    r.Label(),
		Category: r.Category,
		Entity:   r.Entity,
		Entities: r.Entities,
		Score:    r.Score,
	}
	if r.Outcome == gazetteer.SingleMatch {
		a.MapLink = MapLink(r.Entity, s.locality())
	}
	return a
}

func (s *Service) locality() string {
	if s.opts.Locality != "" {
		return s.opts.Locality
	}
	if m := s.reg.Manifest(); m != nil {
		return m.Locality
	}
	return ""
}

// BatchItem is one slot of a batch response. Invalid queries carry an
// error instead of failing the whole batch.
type BatchItem struct {
	*Answer
	Error string `json:"error,omitempty"`
}

// ResolveBatch resolves queries concurrently on the worker pool and
// returns results in input order.
func (s *Service) ResolveBatch(ctx context.Context, queries []string) ([]BatchItem, error) {
	if len(queries) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(queries) > s.opts.BatchMax {
		return nil, fmt.Errorf("%w (max %d, got %d)", ErrBatchTooLarge, s.opts.BatchMax, len(queries))
	}

	items := make([]BatchItem, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		task := func() {
			defer wg.Done()
			a, err := s.Resolve(ctx, q)
			if err != nil {
				items[i] = BatchItem{Error: err.Error()}
				return
			}
			items[i] = BatchItem{Answer: &a}
		}
		wg.Add(1)
		if err := s.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
	return items, nil
}

// CategoryListing is the first entities of one category.
type CategoryListing struct {
	Category  gazetteer.Category  `json:"category"`
	SourceKey string              `json:"source_key"`
	Total     int                 `json:"total"`
	Entities  []*gazetteer.Entity `json:"entities"`
}

// ListCategory returns up to limit entities of the named category
// (English name or source key). limit <= 0 uses the listing size.
func (s *Service) ListCategory(_ context.Context, name string, limit int) (CategoryListing, error) {
	c, ok := gazetteer.ParseCategory(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return CategoryListing{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	if limit <= 0 {
		limit = s.opts.Scoring.ListingSize
	}
	ix := s.reg.Index()
	ents := ix.First(c, limit)
	if ents == nil {
		ents = []*gazetteer.Entity{}
	}
	return CategoryListing{Category: c, SourceKey: c.SourceKey(), Total: ix.Count(c), Entities: ents}, nil
}

// Categories returns every category with its entity count.
func (s *Service) Categories(context.Context) []gazetteer.CategoryInfo {
	return s.reg.ListCategories()
}

// Recent returns the latest journal entries.
func (s *Service) Recent(ctx context.Context, limit int) ([]journal.Interaction, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.Recent(ctx, limit)
}

// record queues an interaction; a nil journal makes it a no-op.
func (s *Service) record(ctx context.Context, question, label string, a *Answer, kind string) {
	if s.journal == nil {
		return
	}
	it := journal.Interaction{
		RequestID: kit.GetRequestID(ctx),
		Question:  question,
		Label:     label,
		Outcome:   kind,
		Transport: kit.GetTransport(ctx),
	}
	if a != nil {
		it.Outcome = a.Outcome.String()
		it.Score = a.Score
		if a.Category != nil {
			it.Category = a.Category.String()
		}
	}
	s.journal.Record(it)
}
