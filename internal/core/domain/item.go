package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// ItemStatus represents the local lifecycle of an upload item
type ItemStatus string

const (
	ItemStatusWaiting    ItemStatus = "waiting"
	ItemStatusUploading  ItemStatus = "uploading"
	ItemStatusProcessing ItemStatus = "processing"
	ItemStatusDone       ItemStatus = "done"
	ItemStatusError      ItemStatus = "error"
)

// IsTerminal reports whether no further transition may leave the status
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusDone || s == ItemStatusError
}

var transitions = map[ItemStatus][]ItemStatus{
	ItemStatusWaiting:    {ItemStatusUploading, ItemStatusError},
	ItemStatusUploading:  {ItemStatusProcessing, ItemStatusError},
	ItemStatusProcessing: {ItemStatusProcessing, ItemStatusDone, ItemStatusError},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to ItemStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// FileHandle is a raw file selected by the user
type FileHandle interface {
	Name() string
	Size() int64
	// ContentType is the declared media type, possibly empty.
	ContentType() string
	Open() (io.ReadCloser, error)
}

// ConversionTarget is what the item should be converted to
type ConversionTarget struct {
	Format   string
	ToolSlug string
}

// UploadItem is a read-only snapshot of one file's journey
type UploadItem struct {
	ID          uuid.UUID
	FileName    string
	Size        int64
	ContentType string
	IsVideo     bool
	Status      ItemStatus
	Progress    float64
	Message     string
	Error       string
	JobID       string
	OutputKey   string
	DownloadURL string
	Settings    *EncodeSettings
	Target      ConversionTarget
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasOutput reports whether the item carries an output reference
func (i UploadItem) HasOutput() bool {
	return i.OutputKey != "" || i.DownloadURL != ""
}

// Clone returns a copy that shares no pointers with i
func (i UploadItem) Clone() UploadItem {
	if i.Settings != nil {
		s := *i.Settings
		i.Settings = &s
	}
	return i
}
