package service

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/straye-as/portfolio-api/internal/auth"
	"github.com/straye-as/portfolio-api/internal/domain"
	"github.com/straye-as/portfolio-api/internal/mapper"
	"github.com/straye-as/portfolio-api/internal/repository"
	"go.uber.org/zap"
)

const (
	DefaultActivityQueueSize = 256
	DefaultActivityLimit     = 50
	MaxActivityLimit         = 500

	activityListenerTimeout = 10 * time.Second
)

var activityEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "activity_events_dropped_total",
	Help: "Activity events dropped because the recorder queue was full or closed.",
})

// ActivityListener observes persisted activity entries. Errors are logged and never propagate.
type ActivityListener func(ctx context.Context, entry domain.ActivityLogEntry) error

// ActivityRecorder persists activity entries off the request path. Events are queued on a
// buffered channel drained by a single worker; a full queue drops the event with a warning.
type ActivityRecorder struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger

	events  chan domain.ActivityLogEntry
	done    chan struct{}
	pending sync.WaitGroup

	mu        sync.RWMutex
	closed    bool
	listeners []ActivityListener
}

// NewActivityRecorder creates a recorder and starts its worker
func NewActivityRecorder(activityRepo *repository.ActivityRepository, queueSize int, logger *zap.Logger) *ActivityRecorder {
	if queueSize <= 0 {
		queueSize = DefaultActivityQueueSize
	}
	r := &ActivityRecorder{
		activityRepo: activityRepo,
		logger:       logger,
		events:       make(chan domain.ActivityLogEntry, queueSize),
		done:         make(chan struct{}),
	}
	go r.run()
	return r
}

// AddListener registers a listener that runs after each entry is stored
func (r *ActivityRecorder) AddListener(listener ActivityListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, listener)
}

// Record queues an activity entry. The actor is taken from the request identity.
func (r *ActivityRecorder) Record(ctx context.Context, entityType string, entityID int64, action, details string) {
	entry := domain.ActivityLogEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Details:    details,
		UserName:   auth.ActorName(ctx),
		CreatedAt:  time.Now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop(entry, "recorder closed")
		return
	}

	r.pending.Add(1)
	select {
	case r.events <- entry:
	default:
		r.pending.Done()
		r.drop(entry, "queue full")
	}
}

func (r *ActivityRecorder) drop(entry domain.ActivityLogEntry, reason string) {
	activityEventsDropped.Inc()
	r.logger.Warn("activity event dropped",
		zap.String("reason", reason),
		zap.String("entity_type", entry.EntityType),
		zap.Int64("entity_id", entry.EntityID),
		zap.String("action", entry.Action),
	)
}

func (r *ActivityRecorder) run() {
	defer close(r.done)
	for entry := range r.events {
		r.handle(entry)
		r.pending.Done()
	}
}

func (r *ActivityRecorder) handle(entry domain.ActivityLogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), activityListenerTimeout)
	defer cancel()

	if err := r.activityRepo.Create(ctx, &entry); err != nil {
		r.logger.Error("failed to store activity entry",
			zap.String("entity_type", entry.EntityType),
			zap.Int64("entity_id", entry.EntityID),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
		return
	}

	r.mu.RLock()
	listeners := make([]ActivityListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, listener := range listeners {
		if err := listener(ctx, entry); err != nil {
			r.logger.Warn("activity listener failed",
				zap.Int64("activity_id", entry.ID),
				zap.String("action", entry.Action),
				zap.Error(err),
			)
		}
	}
}

// Flush blocks until every queued event has been handled
func (r *ActivityRecorder) Flush() {
	r.pending.Wait()
}

// Close stops accepting events, drains the queue and waits for the worker to exit
func (r *ActivityRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()
	<-r.done
}

// ActivityService serves the activity feed
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// List returns the newest entries first, optionally restricted to one entity type.
// limit is clamped to [1, MaxActivityLimit]; zero or negative selects the default.
func (s *ActivityService) List(ctx context.Context, entityType string, limit int) ([]domain.ActivityLogEntryDTO, error) {
	limit = clampLimit(limit, DefaultActivityLimit, MaxActivityLimit)

	entries, err := s.activityRepo.List(ctx, entityType, limit)
	if err != nil {
		return nil, mapper.FormatError("activity", "list", err)
	}

	dtos := make([]domain.ActivityLogEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = mapper.ToActivityDTO(&entries[i])
	}
	return dtos, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
