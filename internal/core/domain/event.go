package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItemEvent is emitted every time an item snapshot changes
type ItemEvent struct {
	ItemID     uuid.UUID  `json:"item_id"`
	FileName   string     `json:"file_name"`
	Status     ItemStatus `json:"status"`
	Progress   float64    `json:"progress"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	JobID      string     `json:"job_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewItemEvent builds the event describing item
func NewItemEvent(item UploadItem) ItemEvent {
	return ItemEvent{
		ItemID:     item.ID,
		FileName:   item.FileName,
		Status:     item.Status,
		Progress:   item.Progress,
		Message:    item.Message,
		Error:      item.Error,
		JobID:      item.JobID,
		OccurredAt: item.UpdatedAt,
	}
}

// ConversionRecord is a terminal item kept in the conversion history
type ConversionRecord struct {
	ItemID       uuid.UUID
	FileName     string
	ContentType  string
	SizeBytes    int64
	Status       ItemStatus
	Progress     float64
	ErrorMessage string
	JobID        string
	OutputKey    string
	DownloadURL  string
	TargetFormat string
	ToolSlug     string
	CreatedAt    time.Time
	FinishedAt   time.Time
}

// NewConversionRecord builds a history record from a terminal snapshot
func NewConversionRecord(item UploadItem) ConversionRecord {
	return ConversionRecord{
		ItemID:       item.ID,
		FileName:     item.FileName,
		ContentType:  item.ContentType,
		SizeBytes:    item.Size,
		Status:       item.Status,
		Progress:     item.Progress,
		ErrorMessage: item.Error,
		JobID:        item.JobID,
		OutputKey:    item.OutputKey,
		DownloadURL:  item.DownloadURL,
		TargetFormat: item.Target.Format,
		ToolSlug:     item.Target.ToolSlug,
		CreatedAt:    item.CreatedAt,
		FinishedAt:   item.UpdatedAt,
	}
}
