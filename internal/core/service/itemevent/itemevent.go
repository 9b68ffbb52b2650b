package itemevent

import (
	"io"
	"log/slog"
	"sync"

	"convertflow/internal/core/port"

	"github.com/google/uuid"
)

type itemEventService struct {
	out    io.Writer
	logger *slog.Logger

	mu   sync.Mutex
	seen map[uuid.UUID]string
}

// NewItemEventService creates a handler that prints item events received from the broker
func NewItemEventService(out io.Writer, logger *slog.Logger) port.MessageService {
	return &itemEventService{
		out:    out,
		logger: logger,
		seen:   make(map[uuid.UUID]string),
	}
}
