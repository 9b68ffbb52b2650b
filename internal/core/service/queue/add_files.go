package queue

import (
	"context"
	"errors"
	"mime"
	"strings"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/locale"

	"github.com/google/uuid"
)

// AllowedMediaMimeTypes is the default allow-list of declared media types and their usual extensions.
// It is deterministic and does not rely on OS mime databases.
var AllowedMediaMimeTypes = map[string][]string{
	// Images
	"image/jpeg":    {".jpg", ".jpeg"},
	"image/png":     {".png"},
	"image/webp":    {".webp"},
	"image/gif":     {".gif"},
	"image/bmp":     {".bmp"},
	"image/tiff":    {".tif", ".tiff"},
	"image/heic":    {".heic"},
	"image/heif":    {".heif"},
	"image/avif":    {".avif"},
	"image/svg+xml": {".svg"},

	// Videos
	"video/mp4":        {".mp4"},
	"video/webm":       {".webm"},
	"video/quicktime":  {".mov"},
	"video/x-msvideo":  {".avi"},
	"video/x-matroska": {".mkv"},
	"video/ogg":        {".ogv"},
	"video/3gpp":       {".3gp"},

	// Audio
	"audio/mpeg": {".mp3"},
	"audio/wav":  {".wav"},
	"audio/ogg":  {".ogg"},
	"audio/flac": {".flac"},
	"audio/aac":  {".aac"},

	// Documents
	"application/pdf":    {".pdf"},
	"application/msword": {".doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {".docx"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {".xlsx"},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {".pptx"},
	"text/plain": {".txt"},
	"text/csv":   {".csv"},
	"text/html":  {".html", ".htm"},
}

// AddFiles validates every file and queues the accepted ones as waiting items.
// Rejected files are reported as *domain.ValidationError values joined in the returned error;
// the accepted items are returned either way.
func (q *queueService) AddFiles(ctx context.Context, files []domain.FileHandle) ([]domain.UploadItem, error) {
	var (
		accepted []*entry
		rejects  []error
	)

	now := q.now()
	for _, f := range files {
		mimeType, err := q.validate(f)
		if err != nil {
			rejects = append(rejects, err)
			continue
		}

		item := domain.UploadItem{
			ID:          uuid.New(),
			FileName:    f.Name(),
			Size:        f.Size(),
			ContentType: mimeType,
			IsVideo:     strings.HasPrefix(mimeType, "video/"),
			Status:      domain.ItemStatusWaiting,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if item.IsVideo {
			settings := domain.DefaultEncodeSettings()
			item.Settings = &settings
		}
		accepted = append(accepted, &entry{item: item, file: f})
	}

	items := make([]domain.UploadItem, 0, len(accepted))
	q.mu.Lock()
	for _, e := range accepted {
		q.items[e.item.ID] = e
		q.order = append(q.order, e.item.ID)
		items = append(items, e.item.Clone())
	}
	q.mu.Unlock()

	for _, item := range items {
		q.logger.Info("file queued", "item_id", item.ID, "file_name", item.FileName, "content_type", item.ContentType)
		q.emit(ctx, item)
	}

	return items, errors.Join(rejects...)
}

func (q *queueService) validate(f domain.FileHandle) (string, error) {
	p := q.locale.Printer()
	declared := f.ContentType()

	mimeType := extractMimeType(declared)
	if mimeType == "" {
		return "", &domain.ValidationError{
			FileName:    f.Name(),
			ContentType: declared,
			Message:     p.Sprintf(locale.MsgMissingType),
		}
	}

	if _, ok := q.allowed[mimeType]; !ok {
		return "", &domain.ValidationError{
			FileName:    f.Name(),
			ContentType: declared,
			Message:     p.Sprintf(locale.MsgUnsupportedType, mimeType),
		}
	}

	if q.maxSize > 0 && f.Size() > q.maxSize {
		return "", &domain.ValidationError{
			FileName:    f.Name(),
			ContentType: declared,
			Message:     p.Sprintf(locale.MsgFileTooLarge, q.maxSize),
			Err:         domain.ErrFileSizeTooBig,
		}
	}

	return mimeType, nil
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mimeType
}
