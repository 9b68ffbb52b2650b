package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"convertflow/internal/core/domain"
	"convertflow/internal/core/port"
)

const defaultHistoryLimit = 50

type sqlHistoryRepository struct {
	db SQLQuerier
}

// NewSqlHistoryRepository creates sqlHistoryRepository that implements port.HistoryRepository
func NewSqlHistoryRepository(db SQLQuerier) port.HistoryRepository {
	return &sqlHistoryRepository{
		db: db,
	}
}

// Save inserts a terminal conversion. Saving the same item again overwrites it.
func (s *sqlHistoryRepository) Save(ctx context.Context, record domain.ConversionRecord) error {
	query := `
		INSERT INTO conversion_history (
			item_id, file_name, content_type, size_bytes, status, progress, error_message,
			job_id, output_key, download_url, target_format, tool_slug, created_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (item_id) DO UPDATE SET
			status = EXCLUDED.status,
			progress = EXCLUDED.progress,
			error_message = EXCLUDED.error_message,
			job_id = EXCLUDED.job_id,
			output_key = EXCLUDED.output_key,
			download_url = EXCLUDED.download_url,
			finished_at = EXCLUDED.finished_at`

	_, err := s.db.ExecContext(ctx, query,
		record.ItemID,
		record.FileName,
		record.ContentType,
		record.SizeBytes,
		record.Status,
		record.Progress,
		nullString(record.ErrorMessage),
		nullString(record.JobID),
		nullString(record.OutputKey),
		nullString(record.DownloadURL),
		record.TargetFormat,
		nullString(record.ToolSlug),
		record.CreatedAt,
		record.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversion history: %w", err)
	}
	return nil
}

// ListRecent returns the latest finished conversions first
func (s *sqlHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.ConversionRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := `
		SELECT item_id, file_name, content_type, size_bytes, status, progress, error_message,
			job_id, output_key, download_url, target_format, tool_slug, created_at, finished_at
		FROM conversion_history
		ORDER BY finished_at DESC, item_id
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversion history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ConversionRecord, 0, limit)
	for rows.Next() {
		var (
			r                                              domain.ConversionRecord
			errorMessage, jobID, outputKey, downloadURL, tool sql.NullString
		)
		if err := rows.Scan(
			&r.ItemID, &r.FileName, &r.ContentType, &r.SizeBytes, &r.Status, &r.Progress, &errorMessage,
			&jobID, &outputKey, &downloadURL, &r.TargetFormat, &tool, &r.CreatedAt, &r.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversion history: %w", err)
		}
		r.ErrorMessage = errorMessage.String
		r.JobID = jobID.String
		r.OutputKey = outputKey.String
		r.DownloadURL = downloadURL.String
		r.ToolSlug = tool.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversion history: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
