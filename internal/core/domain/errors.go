package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidFileType is an error thrown when the declared media type is not accepted
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrItemNotFound is an error thrown when no queued item has the given id
var ErrItemNotFound = errors.New("item not found")

// ErrItemAlreadyStarted is an error thrown when start is requested for an item that left waiting
var ErrItemAlreadyStarted = errors.New("item already started")

// ErrSettingsEditorBusy is an error thrown when another item's settings editor is open
var ErrSettingsEditorBusy = errors.New("settings editor already open")

// ErrSettingsEditorClosed is an error thrown when settings are saved without an open editor
var ErrSettingsEditorClosed = errors.New("settings editor not open")

// ErrSettingsNotApplicable is an error thrown when encode settings are requested for a non video item
var ErrSettingsNotApplicable = errors.New("encode settings only apply to videos")

// ErrSettingsLocked is an error thrown when settings are edited after the item was started
var ErrSettingsLocked = errors.New("settings locked once conversion started")

// ErrInvalidSettings is an error thrown when encode settings hold an unknown value
var ErrInvalidSettings = errors.New("invalid encode settings")

// ErrInvalidTransition is an error thrown when a status change is not in the transition table
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrTransport is the root of every remote call failure
var ErrTransport = errors.New("transport error")

// ErrPollLimitReached is an error thrown when polling exhausted its attempts or duration
var ErrPollLimitReached = errors.New("poll limit reached")

// ErrConversionFailed is an error thrown when the remote job reports a failure
var ErrConversionFailed = errors.New("conversion failed")

// ErrMissingOutput is an error thrown when a job completes without any output reference
var ErrMissingOutput = errors.New("conversion completed without output")

// ErrAborted is an error thrown when the run context is cancelled before a terminal state
var ErrAborted = errors.New("conversion aborted")

// ValidationError describes a file rejected before it entered the queue.
type ValidationError struct {
	FileName    string
	ContentType string
	// Message is the user facing, localized reason.
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FileName, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidFileType
	}
	return e.Err
}

// Transport operations, used to pick a fallback message.
const (
	OpRequestUploadTarget = "request_upload_target"
	OpTransferBytes       = "transfer_bytes"
	OpRegisterJob         = "register_job"
	OpFetchStatus         = "fetch_status"
)

// TransportError is returned by every failed remote call.
type TransportError struct {
	Op string
	// StatusCode is zero when no response was received.
	StatusCode    int
	RemoteMessage string
	Err           error
}

func (e *TransportError) Error() string {
	msg := e.UserMessage()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the remote message when the service sent one, otherwise a generic fallback.
func (e *TransportError) UserMessage() string {
	if e.RemoteMessage != "" {
		return e.RemoteMessage
	}
	switch e.Op {
	case OpRequestUploadTarget:
		return "could not prepare the upload"
	case OpTransferBytes:
		return "upload failed"
	case OpRegisterJob:
		return "could not start the conversion"
	case OpFetchStatus:
		return "could not fetch conversion status"
	default:
		return "request failed"
	}
}

// ErrJobNotFound is an error thrown when a conversion job id is unknown to the backend
var ErrJobNotFound = errors.New("job not found")

// ErrObjectNotFound is an error thrown when a storage key does not exist
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidRequest is an error thrown when a backend request misses a required field
var ErrInvalidRequest = errors.New("invalid request")
