package queue

import (
	"context"

	"convertflow/internal/core/domain"

	"github.com/google/uuid"
)

// Start hands a waiting item to its own job machine
func (q *queueService) Start(ctx context.Context, id uuid.UUID, target domain.ConversionTarget) error {
	q.mu.Lock()
	e, ok := q.items[id]
	if !ok {
		q.mu.Unlock()
		return domain.ErrItemNotFound
	}
	if e.started || e.item.Status != domain.ItemStatusWaiting {
		q.mu.Unlock()
		return domain.ErrItemAlreadyStarted
	}
	q.launch(ctx, e, target)
	q.mu.Unlock()
	return nil
}

// StartAll starts every waiting item and returns how many were started
func (q *queueService) StartAll(ctx context.Context, target domain.ConversionTarget) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	started := 0
	for _, id := range q.order {
		e := q.items[id]
		if e.started || e.item.Status != domain.ItemStatusWaiting {
			continue
		}
		q.launch(ctx, e, target)
		started++
	}
	return started, nil
}

// launch must be called with q.mu held
func (q *queueService) launch(ctx context.Context, e *entry, target domain.ConversionTarget) {
	e.started = true
	if q.editor == e.item.ID {
		q.editor = uuid.Nil
	}
	item := e.item.Clone()
	file := e.file

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.runner.Run(ctx, item, file, target, func(snapshot domain.UploadItem) {
			q.apply(ctx, snapshot)
		})
	}()
}

// apply stores a machine reported snapshot wholesale
func (q *queueService) apply(ctx context.Context, snapshot domain.UploadItem) {
	q.mu.Lock()
	e, ok := q.items[snapshot.ID]
	if !ok {
		q.mu.Unlock()
		q.logger.Debug("dropping report for removed item", "item_id", snapshot.ID)
		return
	}
	if e.item.Status.IsTerminal() {
		q.mu.Unlock()
		return
	}
	e.item = snapshot.Clone()
	q.mu.Unlock()

	q.emit(ctx, snapshot)
	if snapshot.Status.IsTerminal() {
		q.record(ctx, snapshot)
	}
}
