package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/guttosm/nav-service/internal/logger"
	"github.com/guttosm/nav-service/internal/metrics"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/guttosm/nav-service/internal/service/cache"
	"golang.org/x/sync/singleflight"
)

// ErrUpstreamUnavailable is returned when the content source cannot be queried.
// The underlying cause is wrapped and can be inspected with errors.Is.
var ErrUpstreamUnavailable = errors.New("content source unavailable")

// DefaultUpstreamTimeout bounds a single content source query.
const DefaultUpstreamTimeout = 30 * time.Second

const refreshFlightKey = "refresh"

// ContentResult is the outcome of a read or a refresh.
type ContentResult struct {
	Collection *model.PageCollection
	// Tags is the tag index; it is set for unfiltered reads and refreshes only.
	// Callers must not modify it.
	Tags []string
	// Cached reports whether the collection was served from the cache.
	Cached     bool
	Generation uint64
}

// ContentService serves directory content through the tag-indexed cache.
type ContentService interface {
	// Read returns the collection for tag, or the unfiltered collection with
	// its tag index when tag is empty.
	Read(ctx context.Context, tag string) (*ContentResult, error)
	// Refresh discards every cached entry and repopulates the unfiltered
	// collection and its tag index from the content source.
	Refresh(ctx context.Context) (*ContentResult, error)
	// CacheMetrics returns the cache counters.
	CacheMetrics() cache.Metrics
}

// RefreshRecorder receives a journal entry for every refresh attempt.
// Record must not block; it reports why an event was dropped.
type RefreshRecorder interface {
	Record(event *model.RefreshEvent) error
}

// ContentOption configures a ContentServiceImpl.
type ContentOption func(*ContentServiceImpl)

// WithUpstreamTimeout sets the timeout of a single content source query.
func WithUpstreamTimeout(d time.Duration) ContentOption {
	return func(s *ContentServiceImpl) {
		if d > 0 {
			s.upstreamTimeout = d
		}
	}
}

// WithLocalTagFiltering controls whether a tag miss is answered by filtering
// the cached unfiltered collection instead of querying the source.
func WithLocalTagFiltering(enabled bool) ContentOption {
	return func(s *ContentServiceImpl) {
		s.localTagFilter = enabled
	}
}

// WithRefreshRecorder sets the journal receiving refresh events.
func WithRefreshRecorder(r RefreshRecorder) ContentOption {
	return func(s *ContentServiceImpl) {
		s.recorder = r
	}
}

// ContentServiceImpl implements ContentService.
//
// Concurrent misses on the same key share one upstream query. The query runs
// detached from the caller's cancellation so an abandoned request still
// populates the cache for later readers. A miss only joins a query started
// in the same generation, and writes made by a query that started before a
// refresh are discarded.
type ContentServiceImpl struct {
	repo            repository.ContentRepositoryInterface
	store           *cache.Store
	group           singleflight.Group
	upstreamTimeout time.Duration
	localTagFilter  bool
	recorder        RefreshRecorder

	// refreshMu guards refreshSeq and committedSeq; refreshes commit in the
	// order their queries started.
	refreshMu    sync.Mutex
	refreshSeq   uint64
	committedSeq uint64
}

// NewContentService creates a content service reading through store.
func NewContentService(repo repository.ContentRepositoryInterface, store *cache.Store, opts ...ContentOption) *ContentServiceImpl {
	s := &ContentServiceImpl{
		repo:            repo,
		store:           store,
		upstreamTimeout: DefaultUpstreamTimeout,
		localTagFilter:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read implements ContentService.
func (s *ContentServiceImpl) Read(ctx context.Context, tag string) (*ContentResult, error) {
	key := cache.KeyFor(tag)
	scope := readScope(key)

	view, ok := s.store.View(key)
	if ok {
		metrics.RecordContentRead(scope, "hit")
		result := &ContentResult{
			Collection: view.Collection,
			Cached:     true,
			Generation: view.Generation,
		}
		if key.IsAll() {
			result.Tags = s.indexFor(view)
		}
		return result, nil
	}

	metrics.RecordContentRead(scope, "miss")
	gen := view.Generation
	flight := fmt.Sprintf("%d/%s", gen, key)
	return s.share(ctx, flight, func(uctx context.Context) (*ContentResult, error) {
		return s.load(uctx, key, gen)
	})
}

// Refresh implements ContentService. Refreshes that arrive before the source
// query has started share it; a refresh never reuses a query that started
// before it was called. On failure the cache is left untouched.
func (s *ContentServiceImpl) Refresh(ctx context.Context) (*ContentResult, error) {
	return s.share(ctx, refreshFlightKey, s.refresh)
}

// CacheMetrics implements ContentService.
func (s *ContentServiceImpl) CacheMetrics() cache.Metrics {
	return s.store.Metrics()
}

func (s *ContentServiceImpl) refresh(ctx context.Context) (*ContentResult, error) {
	// later callers start their own query
	s.group.Forget(refreshFlightKey)
	seq := s.nextRefresh()

	log := logger.FromContext(ctx)
	start := time.Now()
	event := &model.RefreshEvent{
		Timestamp: start,
		RequestID: logger.RequestIDFromContext(ctx),
	}

	col, err := s.query(ctx, "refresh", nil)
	elapsed := time.Since(start)
	event.Duration = elapsed.Milliseconds()

	if err != nil {
		metrics.RecordRefresh(elapsed, model.RefreshStatusFailed)
		event.Status = model.RefreshStatusFailed
		event.Error = err.Error()
		s.record(event)
		log.Warn().Err(err).Str("source", s.repo.Name()).Msg("Content refresh failed, keeping cached content")
		return nil, err
	}

	tags := model.ExtractTags(col)
	result := &ContentResult{Collection: col, Tags: tags}
	if gen, ok := s.commitRefresh(seq, col, tags); ok {
		result.Generation = gen
	} else {
		result = s.supersededRefresh(result)
		log.Debug().Uint64("generation", result.Generation).Msg("Refresh overtaken by a later refresh, serving its result")
	}

	metrics.RecordRefresh(elapsed, model.RefreshStatusSuccess)
	event.Status = model.RefreshStatusSuccess
	event.Pages = result.Collection.Len()
	event.Tags = len(result.Tags)
	event.Generation = result.Generation
	s.record(event)

	log.Info().
		Int("pages", event.Pages).
		Int("tags", event.Tags).
		Uint64("generation", result.Generation).
		Dur("duration", elapsed).
		Msg("Content cache refreshed")

	return result, nil
}

func (s *ContentServiceImpl) nextRefresh() uint64 {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	s.refreshSeq++
	return s.refreshSeq
}

// commitRefresh installs the result of refresh seq unless a refresh whose
// query started later has already been committed.
func (s *ContentServiceImpl) commitRefresh(seq uint64, col *model.PageCollection, tags []string) (uint64, bool) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if seq < s.committedSeq {
		return 0, false
	}
	s.committedSeq = seq
	return s.store.Replace(col, tags), true
}

// supersededRefresh answers a refresh whose result lost to a later one with
// the cached collection, which is at least as new. own is returned
// uncommitted when the cache has been emptied since.
func (s *ContentServiceImpl) supersededRefresh(own *ContentResult) *ContentResult {
	view, ok := s.store.View(cache.AllKey)
	if !ok {
		own.Generation = view.Generation
		return own
	}
	return &ContentResult{
		Collection: view.Collection,
		Tags:       s.indexFor(view),
		Cached:     true,
		Generation: view.Generation,
	}
}

// load answers a miss for key observed in generation gen and commits the
// result if no refresh happened since.
func (s *ContentServiceImpl) load(ctx context.Context, key cache.Key, gen uint64) (*ContentResult, error) {
	log := logger.FromContext(ctx)

	if !key.IsAll() && s.localTagFilter {
		if all, ok := s.store.View(cache.AllKey); ok {
			col := withETag(model.FilterByTag(all.Collection, key.Tag()))
			s.store.SetIfGeneration(all.Generation, key, col)
			log.Debug().Str("tag", key.Tag()).Int("pages", col.Len()).Msg("Tag view derived from cached collection")
			return &ContentResult{Collection: col, Generation: all.Generation}, nil
		}
	}

	var filter *repository.ContentFilter
	if !key.IsAll() {
		filter = repository.CategoryFilter(key.Tag())
	}

	col, err := s.query(ctx, readScope(key), filter)
	if err != nil {
		log.Warn().Err(err).Str("source", s.repo.Name()).Str("tag", key.Tag()).Msg("Content source query failed")
		return nil, err
	}

	result := &ContentResult{Collection: col, Generation: gen}
	var stored bool
	if key.IsAll() {
		result.Tags = model.ExtractTags(col)
		stored = s.store.SetAllIfGeneration(gen, col, result.Tags)
	} else {
		stored = s.store.SetIfGeneration(gen, key, col)
	}
	if !stored {
		log.Debug().Str("tag", key.Tag()).Msg("Discarding result of a query that overlapped a refresh")
	}

	return result, nil
}

// query calls the content source and fingerprints the result.
func (s *ContentServiceImpl) query(ctx context.Context, scope string, filter *repository.ContentFilter) (*model.PageCollection, error) {
	start := time.Now()
	col, err := s.repo.Query(ctx, filter)
	metrics.RecordUpstreamQuery(s.repo.Name(), scope, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if col == nil {
		col = &model.PageCollection{Object: "list", Results: []model.Page{}}
	}
	return withETag(col), nil
}

// indexFor returns the tag index for an unfiltered view, deriving and
// caching it when it is not known yet.
func (s *ContentServiceImpl) indexFor(view cache.View) []string {
	if view.TagsKnown {
		return view.Tags
	}
	tags := model.ExtractTags(view.Collection)
	s.store.SetTagsIfGeneration(view.Generation, tags)
	return tags
}

// share runs fn once per key across concurrent callers. fn gets a context
// that keeps the caller's values but not its cancellation, bounded by the
// upstream timeout. A caller whose ctx ends first returns ctx.Err().
func (s *ContentServiceImpl) share(ctx context.Context, key string, fn func(context.Context) (*ContentResult, error)) (*ContentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := s.group.DoChan(key, func() (interface{}, error) {
		uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.upstreamTimeout)
		defer cancel()
		return fn(uctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := *res.Val.(*ContentResult)
		return &shared, nil
	}
}

func (s *ContentServiceImpl) record(event *model.RefreshEvent) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(event); err != nil {
		log := logger.Logger()
		log.Warn().Err(err).Str("status", event.Status).Msg("Refresh event dropped")
	}
}

// withETag returns a copy of col carrying its fingerprint.
func withETag(col *model.PageCollection) *model.PageCollection {
	out := *col
	out.ETag = model.Fingerprint(col)
	return &out
}

func readScope(key cache.Key) string {
	if key.IsAll() {
		return "all"
	}
	return "tag"
}
