package postgres_test

import (
	"context"
	"testing"
	"time"

	"convertflow/internal/adapters/repository/postgres"
	"convertflow/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(name string, status domain.ItemStatus, finishedAt time.Time) domain.ConversionRecord {
	r := domain.ConversionRecord{
		ItemID:       uuid.New(),
		FileName:     name,
		ContentType:  "image/png",
		SizeBytes:    1024,
		Status:       status,
		Progress:     100,
		JobID:        "job-" + name,
		TargetFormat: "webp",
		CreatedAt:    finishedAt.Add(-time.Minute),
		FinishedAt:   finishedAt,
	}
	if status == domain.ItemStatusDone {
		r.OutputKey = "converted/" + name
	} else {
		r.Progress = 40
		r.ErrorMessage = "codec unsupported"
	}
	return r
}

func TestSqlHistoryRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	repo := postgres.NewSqlHistoryRepository(dbConnection)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and list newest first", func(t *testing.T) {
		// Arrange
		truncate()
		older := newRecord("a.png", domain.ItemStatusDone, base)
		newer := newRecord("b.png", domain.ItemStatusError, base.Add(time.Hour))

		// Act
		require.NoError(t, repo.Save(ctx, older))
		require.NoError(t, repo.Save(ctx, newer))
		records, err := repo.ListRecent(ctx, 10)

		// Assert
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, newer.ItemID, records[0].ItemID)
		assert.Equal(t, domain.ItemStatusError, records[0].Status)
		assert.Equal(t, "codec unsupported", records[0].ErrorMessage)
		assert.Empty(t, records[0].OutputKey)
		assert.Equal(t, older.ItemID, records[1].ItemID)
		assert.Equal(t, "converted/a.png", records[1].OutputKey)
		assert.Empty(t, records[1].ToolSlug)
		assert.True(t, older.FinishedAt.Equal(records[1].FinishedAt))
	})

	t.Run("save twice overwrites", func(t *testing.T) {
		truncate()
		record := newRecord("a.png", domain.ItemStatusError, base)
		require.NoError(t, repo.Save(ctx, record))

		record.Status = domain.ItemStatusDone
		record.ErrorMessage = ""
		record.OutputKey = "converted/a.png"
		require.NoError(t, repo.Save(ctx, record))

		records, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.ItemStatusDone, records[0].Status)
		assert.Empty(t, records[0].ErrorMessage)
	})

	t.Run("limit", func(t *testing.T) {
		truncate()
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Save(ctx, newRecord("f.png", domain.ItemStatusDone, base.Add(time.Duration(i)*time.Minute))))
		}

		records, err := repo.ListRecent(ctx, 2)

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
