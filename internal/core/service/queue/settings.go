package queue

import (
	"convertflow/internal/core/domain"

	"github.com/google/uuid"
)

// OpenSettings opens the single settings editor on a waiting video item and returns its current settings
func (q *queueService) OpenSettings(id uuid.UUID) (domain.EncodeSettings, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, err := q.editable(id)
	if err != nil {
		return domain.EncodeSettings{}, err
	}
	if q.editor != uuid.Nil && q.editor != id {
		return domain.EncodeSettings{}, domain.ErrSettingsEditorBusy
	}
	q.editor = id

	if e.item.Settings == nil {
		return domain.DefaultEncodeSettings(), nil
	}
	return *e.item.Settings, nil
}

// SaveSettings replaces the item's settings wholesale and closes the editor
func (q *queueService) SaveSettings(id uuid.UUID, settings domain.EncodeSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.editor != id {
		return domain.ErrSettingsEditorClosed
	}
	e, err := q.editable(id)
	if err != nil {
		q.editor = uuid.Nil
		return err
	}

	e.item.Settings = &settings
	e.item.UpdatedAt = q.now()
	q.editor = uuid.Nil
	return nil
}

// CloseSettings closes the editor without saving
func (q *queueService) CloseSettings(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.editor == id {
		q.editor = uuid.Nil
	}
}

// editable must be called with q.mu held
func (q *queueService) editable(id uuid.UUID) (*entry, error) {
	e, ok := q.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	if !e.item.IsVideo {
		return nil, domain.ErrSettingsNotApplicable
	}
	if e.started || e.item.Status != domain.ItemStatusWaiting {
		return nil, domain.ErrSettingsLocked
	}
	return e, nil
}
