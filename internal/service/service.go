// Package service orchestrates loading the directory and answering queries
// against the loaded dataset.
//
// A load reads the cache, falls back to fetching and parsing the sheet, and
// publishes the result as the current dataset. Loads are generation
// numbered: starting a new load cancels the one in flight, and a load only
// publishes if no newer load has started since. Concurrent first loads are
// collapsed into one.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/directory/internal/cache"
	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/logging"
)

// ErrSuperseded is returned by a load that a newer load replaced before it
// could publish. It matches context.Canceled.
var ErrSuperseded = fmt.Errorf("load superseded by a newer load: %w", context.Canceled)

// Fetcher returns the sheet's raw CSV text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Columns  directory.Columns
	PageSize int

	// MaxAge is how long a published dataset is served before the next
	// query triggers a load. Zero keeps a dataset until Reload.
	MaxAge time.Duration

	// QueryCacheSize bounds the number of memoised filter/sort results.
	QueryCacheSize int
	// QueryCacheTTL expires memoised results (default: 10m).
	QueryCacheTTL time.Duration
}

const (
	defaultQueryCacheSize = 128
	defaultQueryCacheTTL  = 10 * time.Minute
	loadKey               = "load"
)

// Service owns the current dataset.
type Service struct {
	fetcher  Fetcher
	cache    *cache.Cache
	cols     directory.Columns
	pageSize int
	maxAge   time.Duration

	memo  *expirable.LRU[string, []directory.Record]
	group singleflight.Group

	current     atomic.Pointer[directory.Dataset]
	publishedAt atomic.Int64 // unix nanoseconds

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	lastErr error
	// settled is closed when the newest load finishes, then replaced.
	settled chan struct{}
}

// New creates a Service. c may be nil to run without a dataset cache.
func New(f Fetcher, c *cache.Cache, opts Options) *Service {
	if opts.Columns == (directory.Columns{}) {
		opts.Columns = directory.DefaultColumns
	}
	if opts.PageSize < 1 {
		opts.PageSize = directory.DefaultPageSize
	}
	if opts.QueryCacheSize < 1 {
		opts.QueryCacheSize = defaultQueryCacheSize
	}
	if opts.QueryCacheTTL <= 0 {
		opts.QueryCacheTTL = defaultQueryCacheTTL
	}
	return &Service{
		fetcher:  f,
		cache:    c,
		cols:     opts.Columns,
		pageSize: opts.PageSize,
		maxAge:   opts.MaxAge,
		memo:     expirable.NewLRU[string, []directory.Record](opts.QueryCacheSize, nil, opts.QueryCacheTTL),
		settled:  make(chan struct{}),
	}
}

// PageSize is the number of records revealed per page.
func (s *Service) PageSize() int {
	return s.pageSize
}

// Current returns the published dataset, or nil before the first load.
func (s *Service) Current() *directory.Dataset {
	return s.current.Load()
}

// Load loads the dataset, preferring a fresh cache entry over the network.
// Concurrent calls share one load; a caller that gives up returns early
// without cancelling the shared load.
func (s *Service) Load(ctx context.Context) (*directory.Dataset, error) {
	ch := s.group.DoChan(loadKey, func() (any, error) {
		return s.load(context.WithoutCancel(ctx), true)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*directory.Dataset), nil
	}
}

// Reload fetches the sheet, bypassing the cache read, and cancels any load
// still in flight.
func (s *Service) Reload(ctx context.Context) (*directory.Dataset, error) {
	return s.load(ctx, false)
}

func (s *Service) load(ctx context.Context, useCache bool) (*directory.Dataset, error) {
	gen, loadCtx, done := s.begin(ctx)
	defer done()
	log := logging.WithFields(ctx, "load_generation", gen)

	if useCache && s.cache != nil {
		if ds, ok := s.cache.Read(loadCtx); ok {
			if !s.publish(gen, ds, nil) {
				return nil, ErrSuperseded
			}
			log.Info("dataset loaded from cache", "records", ds.Len(), "dataset_id", ds.ID)
			return ds, nil
		}
	}

	start := time.Now()
	ds, err := s.fetchDataset(loadCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) && s.superseded(gen) {
			return nil, ErrSuperseded
		}
		s.publish(gen, nil, err)
		log.Error("failed to load directory", "error", err, "code", directory.MapError(err).Code)
		return nil, err
	}
	if !s.publish(gen, ds, nil) {
		log.Info("discarding superseded load", "records", ds.Len())
		return nil, ErrSuperseded
	}
	if s.cache != nil {
		s.cache.Write(ctx, ds)
	}

	log.Info("dataset loaded from sheet",
		"records", ds.Len(),
		"dataset_id", ds.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// begin starts a new load generation, cancelling the previous one.
func (s *Service) begin(ctx context.Context) (uint64, context.Context, func()) {
	loadCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	return gen, loadCtx, func() {
		cancel()
		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
			close(s.settled)
			s.settled = make(chan struct{})
		}
		s.mu.Unlock()
	}
}

// publish makes ds current when gen is still the newest load. A non-nil
// loadErr is recorded instead and the current dataset kept.
func (s *Service) publish(gen uint64, ds *directory.Dataset, loadErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.lastErr = loadErr
	if ds != nil {
		s.current.Store(ds)
		s.publishedAt.Store(time.Now().UnixNano())
		s.memo.Purge()
	}
	return true
}

func (s *Service) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}

func (s *Service) fetchDataset(ctx context.Context) (*directory.Dataset, error) {
	text, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := directory.ParseCSV(text, s.cols)
	if err != nil {
		return nil, err
	}
	return directory.AdmitDataset(ds), nil
}

// inflight returns a channel closed when the newest load finishes, or
// false when no load is running.
func (s *Service) inflight() (<-chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return nil, false
	}
	return s.settled, true
}

// awaitNewest waits on settled and reports what the newest load left
// behind: its error, or the current dataset.
func (s *Service) awaitNewest(ctx context.Context, settled <-chan struct{}) (*directory.Dataset, error) {
	if settled != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-settled:
		}
	}
	s.mu.Lock()
	err := s.lastErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if ds := s.Current(); ds != nil {
		return ds, nil
	}
	return nil, ErrSuperseded
}

// ensure returns the current dataset, loading one first when there is none
// or it was published more than MaxAge ago. A stale dataset is still served
// if the load fails.
//
// A load already in flight (a Reload, say) is waited on rather than
// replaced, and a load superseded while we wait hands over to the one
// that replaced it.
func (s *Service) ensure(ctx context.Context) (*directory.Dataset, error) {
	ds := s.Current()
	if ds != nil && (s.maxAge <= 0 || time.Since(time.Unix(0, s.publishedAt.Load())) < s.maxAge) {
		return ds, nil
	}

	var (
		fresh *directory.Dataset
		err   error
	)
	if settled, ok := s.inflight(); ok {
		fresh, err = s.awaitNewest(ctx, settled)
	} else {
		fresh, err = s.Load(ctx)
		if errors.Is(err, ErrSuperseded) {
			settled, _ := s.inflight()
			fresh, err = s.awaitNewest(ctx, settled)
		}
	}
	if err == nil {
		return fresh, nil
	}
	if ds != nil {
		logging.FromContext(ctx).Warn("serving stale dataset after failed load", "error", err)
		return ds, nil
	}
	return nil, err
}

// Query evaluates q against the current dataset, loading it if necessary.
func (s *Service) Query(ctx context.Context, q directory.Query) (directory.View, error) {
	ds, err := s.ensure(ctx)
	if err != nil {
		return directory.View{}, err
	}
	return directory.NewView(s.results(ds, q), q.Page, s.pageSize), nil
}

// results returns the filtered, sorted records for q. Results are memoised
// per dataset and filter; the page is not part of the key.
func (s *Service) results(ds *directory.Dataset, q directory.Query) []directory.Record {
	key := ds.ID.String() + "|" + q.FilterKey()
	if r, ok := s.memo.Get(key); ok {
		return r
	}
	r := directory.Results(ds.Records, q)
	s.memo.Add(key, r)
	return r
}

// Facets returns the filter values of the current dataset.
func (s *Service) Facets(ctx context.Context) (directory.Facets, error) {
	ds, err := s.ensure(ctx)
	if err != nil {
		return directory.Facets{}, err
	}
	return directory.BuildFacets(ds.Records), nil
}

// ClearCache drops the cached dataset and memoised results. The current
// dataset stays published.
func (s *Service) ClearCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Clear(ctx)
	}
	s.memo.Purge()
	logging.FromContext(ctx).Info("cache cleared")
}

// Status describes the service for health checks.
type Status struct {
	Loaded    bool      `json:"loaded"`
	DatasetID string    `json:"dataset_id,omitempty"`
	Records   int       `json:"records"`
	LoadedAt  time.Time `json:"loaded_at,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

// Status reports the current dataset and the outcome of the latest load.
func (s *Service) Status() Status {
	var st Status
	if ds := s.Current(); ds != nil {
		st.Loaded = true
		st.DatasetID = ds.ID.String()
		st.Records = ds.Len()
		st.LoadedAt = ds.LoadedAt
	}
	s.mu.Lock()
	if s.lastErr != nil {
		st.LastError = directory.FormatUserError(s.lastErr)
	}
	s.mu.Unlock()
	return st
}
