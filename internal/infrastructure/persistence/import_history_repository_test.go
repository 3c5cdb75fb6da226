package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fundledger/backend/internal/domain/bulk"
	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveHistory(t *testing.T, repo *GormImportHistoryRepository, fileName string, createdAt time.Time) *bulk.ImportHistory {
	t.Helper()
	h, err := bulk.NewImportHistory(fileName, 128)
	require.NoError(t, err)
	h.CreatedAt = createdAt
	h.UpdatedAt = createdAt
	require.NoError(t, repo.Save(context.Background(), h))
	return h
}

func TestGormImportHistoryRepository_SaveAndFind(t *testing.T) {
	repo := NewGormImportHistoryRepository(newTestDB(t))
	ctx := context.Background()

	h := saveHistory(t, repo, "data.csv", time.Now())

	require.NoError(t, h.StartProcessing(5))
	require.NoError(t, h.Complete(4, 1, 0, []bulk.ImportErrorDetail{
		{Row: 3, Kind: "ROW_FORMAT", Message: "invalid Commitment Amount 'abc'"},
	}))
	h.ArchiveKey = "imports/2026/10/16/" + h.ID.String() + "/data.csv"
	require.NoError(t, repo.Save(ctx, h))

	found, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, bulk.ImportStatusCompleted, found.Status)
	assert.Equal(t, 5, found.TotalRows)
	assert.Equal(t, 4, found.SuccessRows)
	assert.Equal(t, 1, found.FailedRows)
	assert.Equal(t, h.ArchiveKey, found.ArchiveKey)
	require.Len(t, found.ErrorDetails, 1)
	assert.Equal(t, 3, found.ErrorDetails[0].Row)
	require.NotNil(t, found.CompletedAt)
}

func TestGormImportHistoryRepository_FindByID_NotFound(t *testing.T) {
	repo := NewGormImportHistoryRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormImportHistoryRepository_FindAll(t *testing.T) {
	repo := NewGormImportHistoryRepository(newTestDB(t))
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	oldest := saveHistory(t, repo, "a.csv", base)
	middle := saveHistory(t, repo, "b.csv", base.Add(time.Hour))
	newest := saveHistory(t, repo, "c.csv", base.Add(2*time.Hour))

	t.Run("newest first by default", func(t *testing.T) {
		page, err := repo.FindAll(context.Background(), shared.Filter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 2)
		assert.Equal(t, newest.ID, page.Items[0].ID)
		assert.Equal(t, middle.ID, page.Items[1].ID)
	})

	t.Run("second page", func(t *testing.T) {
		page, err := repo.FindAll(context.Background(), shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, oldest.ID, page.Items[0].ID)
	})

	t.Run("ascending by file name", func(t *testing.T) {
		page, err := repo.FindAll(context.Background(), shared.Filter{OrderBy: "file_name", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "a.csv", page.Items[0].FileName)
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		page, err := repo.FindAll(context.Background(), shared.Filter{OrderBy: "id; DROP TABLE import_histories"})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, newest.ID, page.Items[0].ID)
	})
}
