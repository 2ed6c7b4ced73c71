package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/nav-service/internal/circuitbreaker"
	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/guttosm/nav-service/internal/logger"
	"github.com/guttosm/nav-service/internal/metrics"
	"github.com/guttosm/nav-service/internal/repository"
)

var (
	// ErrJournalNotConfigured is returned when the refresh journal has no storage.
	ErrJournalNotConfigured = errors.New("refresh journal not configured")
	// ErrJournalStopped is returned by Record after Stop.
	ErrJournalStopped = errors.New("refresh journal stopped")
	// ErrJournalFull is returned by Record when the pending buffer is full.
	ErrJournalFull = errors.New("refresh journal buffer full")
)

// JournalConfig holds configuration for the refresh journal.
type JournalConfig struct {
	// BufferSize is the size of the pending event channel.
	BufferSize int
	// NumWorkers is the number of goroutines writing events.
	NumWorkers int
	// WriteTimeout bounds the write of a single event.
	WriteTimeout time.Duration
}

// DefaultJournalConfig returns sensible defaults for the refresh journal.
func DefaultJournalConfig() JournalConfig {
	return JournalConfig{
		BufferSize:   256,
		NumWorkers:   2,
		WriteTimeout: 5 * time.Second,
	}
}

// JournalStats holds refresh journal counters.
type JournalStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Errors   int64
}

// RefreshJournal writes refresh events to storage through a bounded worker
// pool, so a slow database never delays a refresh response.
type RefreshJournal struct {
	repo         repository.RefreshEventsRepositoryInterface
	eventCh      chan *model.RefreshEvent
	wg           sync.WaitGroup
	stopCh       chan struct{}
	stopOnce     sync.Once
	// mu orders Record against Stop: no event is enqueued once stopCh is closed.
	mu           sync.RWMutex
	stopped      bool
	writeTimeout time.Duration

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	errors   atomic.Int64
}

// NewRefreshJournal starts a journal writing to repo. It returns nil when
// repo is nil; all methods are safe on a nil journal.
func NewRefreshJournal(repo repository.RefreshEventsRepositoryInterface, cfg JournalConfig) *RefreshJournal {
	if repo == nil {
		return nil
	}

	defaults := DefaultJournalConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = defaults.NumWorkers
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}

	j := &RefreshJournal{
		repo:         repo,
		eventCh:      make(chan *model.RefreshEvent, cfg.BufferSize),
		stopCh:       make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
	}

	for i := 0; i < cfg.NumWorkers; i++ {
		j.wg.Add(1)
		go j.worker()
	}

	return j
}

func (j *RefreshJournal) worker() {
	defer j.wg.Done()

	for {
		select {
		case event := <-j.eventCh:
			j.write(event)
		case <-j.stopCh:
			// Drain remaining events before stopping
			for {
				select {
				case event := <-j.eventCh:
					j.write(event)
				default:
					return
				}
			}
		}
	}
}

func (j *RefreshJournal) write(event *model.RefreshEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), j.writeTimeout)
	defer cancel()

	err := j.repo.Create(ctx, event)
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		j.drop()
		return
	}
	if err != nil {
		j.errors.Add(1)
		metrics.RecordJournalEvent("error")
		log := logger.Logger()
		log.Warn().Err(err).Str("request_id", event.RequestID).Msg("Failed to write refresh event")
		return
	}
	j.written.Add(1)
	metrics.RecordJournalEvent("written")

	log := logger.Logger()
	log.Debug().
		Bool("succeeded", event.Succeeded()).
		Int("pages", event.Pages).
		Str("request_id", event.RequestID).
		Msg("Refresh event written")
}

// Record enqueues an event without blocking. A dropped event is reported
// with ErrJournalFull or ErrJournalStopped.
func (j *RefreshJournal) Record(event *model.RefreshEvent) error {
	if j == nil {
		return ErrJournalNotConfigured
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.stopped {
		j.drop()
		return ErrJournalStopped
	}

	select {
	case j.eventCh <- event:
		j.enqueued.Add(1)
		return nil
	default:
		j.drop()
		return ErrJournalFull
	}
}

func (j *RefreshJournal) drop() {
	j.dropped.Add(1)
	metrics.RecordJournalEvent("dropped")
}

// List returns the most recent refresh events, newest first.
func (j *RefreshJournal) List(ctx context.Context, limit int) ([]model.RefreshEvent, error) {
	if j == nil {
		return nil, ErrJournalNotConfigured
	}
	return j.repo.List(ctx, limit)
}

// Stop stops the workers after pending events have been written.
func (j *RefreshJournal) Stop() {
	if j == nil {
		return
	}
	j.stopOnce.Do(func() {
		j.mu.Lock()
		j.stopped = true
		close(j.stopCh)
		j.mu.Unlock()
		j.wg.Wait()
	})
}

// Stats returns current journal counters.
func (j *RefreshJournal) Stats() JournalStats {
	if j == nil {
		return JournalStats{}
	}
	return JournalStats{
		Enqueued: j.enqueued.Load(),
		Dropped:  j.dropped.Load(),
		Written:  j.written.Load(),
		Errors:   j.errors.Load(),
	}
}
