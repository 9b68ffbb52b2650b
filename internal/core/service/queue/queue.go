package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/locale"
	"convertflow/internal/core/port"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// JobRunner drives one item to a terminal state
type JobRunner interface {
	Run(ctx context.Context, item domain.UploadItem, file domain.FileHandle, target domain.ConversionTarget, report func(domain.UploadItem)) domain.UploadItem
}

// Options configures the queue. Zero values are valid.
type Options struct {
	// AllowedTypes replaces AllowedMediaMimeTypes when not empty.
	AllowedTypes []string
	// MaxSize rejects larger files. Zero means no limit.
	MaxSize   int64
	Publisher port.EventPublisher
	History   port.HistoryRepository
	Locale    *locale.Context
}

type entry struct {
	item    domain.UploadItem
	file    domain.FileHandle
	started bool
}

type subscriber struct {
	id int
	fn func(domain.ItemEvent)
}

type queueService struct {
	runner    JobRunner
	allowed   map[string]struct{}
	maxSize   int64
	publisher port.EventPublisher
	history   port.HistoryRepository
	locale    *locale.Context
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.RWMutex
	order  []uuid.UUID
	items  map[uuid.UUID]*entry
	editor uuid.UUID

	subMu   sync.Mutex
	nextSub int
	subs    []subscriber

	wg sync.WaitGroup
}

// NewQueueService creates a new queue service
func NewQueueService(runner JobRunner, opts Options, logger *slog.Logger) port.QueueService {
	allowed := make(map[string]struct{})
	if len(opts.AllowedTypes) > 0 {
		for _, t := range opts.AllowedTypes {
			allowed[extractMimeType(t)] = struct{}{}
		}
	} else {
		for t := range AllowedMediaMimeTypes {
			allowed[t] = struct{}{}
		}
	}

	lc := opts.Locale
	if lc == nil {
		// English is always in Supported
		lc, _ = locale.NewContext(language.English)
	}

	return &queueService{
		runner:    runner,
		allowed:   allowed,
		maxSize:   opts.MaxSize,
		publisher: opts.Publisher,
		history:   opts.History,
		locale:    lc,
		logger:    logger,
		now:       time.Now,
		items:     make(map[uuid.UUID]*entry),
	}
}

// List returns every item snapshot in submission order
func (q *queueService) List() []domain.UploadItem {
	q.mu.RLock()
	defer q.mu.RUnlock()

	items := make([]domain.UploadItem, 0, len(q.order))
	for _, id := range q.order {
		items = append(items, q.items[id].item.Clone())
	}
	return items
}

// Get returns one item snapshot
func (q *queueService) Get(id uuid.UUID) (domain.UploadItem, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	e, ok := q.items[id]
	if !ok {
		return domain.UploadItem{}, domain.ErrItemNotFound
	}
	return e.item.Clone(), nil
}

// Remove drops an item. Reports from a machine still running for it are discarded.
func (q *queueService) Remove(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(q.items, id)
	for i, other := range q.order {
		if other == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	if q.editor == id {
		q.editor = uuid.Nil
	}
	return nil
}

// Subscribe registers fn for every item snapshot change
func (q *queueService) Subscribe(fn func(domain.ItemEvent)) func() {
	q.subMu.Lock()
	defer q.subMu.Unlock()

	id := q.nextSub
	q.nextSub++
	q.subs = append(q.subs, subscriber{id: id, fn: fn})

	return func() {
		q.subMu.Lock()
		defer q.subMu.Unlock()
		for i, s := range q.subs {
			if s.id == id {
				q.subs = append(q.subs[:i:i], q.subs[i+1:]...)
				return
			}
		}
	}
}

// Wait blocks until every started item reached a terminal state
func (q *queueService) Wait() {
	q.wg.Wait()
}

// emit notifies subscribers and the publisher. Must be called without q.mu held.
func (q *queueService) emit(ctx context.Context, item domain.UploadItem) {
	event := domain.NewItemEvent(item)

	q.subMu.Lock()
	subs := make([]subscriber, len(q.subs))
	copy(subs, q.subs)
	q.subMu.Unlock()

	for _, s := range subs {
		s.fn(event)
	}

	if q.publisher == nil {
		return
	}
	if err := q.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		q.logger.Warn("failed to publish item event", "item_id", item.ID, "error", err)
	}
}

func (q *queueService) record(ctx context.Context, item domain.UploadItem) {
	if q.history == nil {
		return
	}
	if err := q.history.Save(context.WithoutCancel(ctx), domain.NewConversionRecord(item)); err != nil {
		q.logger.Warn("failed to save conversion history", "item_id", item.ID, "error", err)
	}
}
