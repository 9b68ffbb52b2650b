package itemevent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"convertflow/internal/core/domain"

	"github.com/google/uuid"
)

// HandleMessage decodes one item event and prints it. Redelivered duplicates are printed once.
func (s *itemEventService) HandleMessage(ctx context.Context, data []byte) error {
	var event domain.ItemEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("could not unmarshal item event: %w", err)
	}
	if event.ItemID == uuid.Nil {
		return fmt.Errorf("item event without item id")
	}

	key := fmt.Sprintf("%s|%.2f|%s", event.Status, event.Progress, event.Error)
	s.mu.Lock()
	if s.seen[event.ItemID] == key {
		s.mu.Unlock()
		return nil
	}
	s.seen[event.ItemID] = key
	if event.Status.IsTerminal() {
		delete(s.seen, event.ItemID)
	}
	s.mu.Unlock()

	s.logger.Debug("handling item event", "item_id", event.ItemID, "status", event.Status)

	line := fmt.Sprintf("%s  %-36s  %-10s %5.1f%%  %s",
		event.OccurredAt.Format(time.TimeOnly), event.ItemID, event.Status, event.Progress, event.FileName)
	switch {
	case event.Error != "":
		line += "  error: " + event.Error
	case event.Message != "":
		line += "  " + event.Message
	}

	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return fmt.Errorf("could not print item event: %w", err)
	}
	return nil
}
