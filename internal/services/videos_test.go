package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youtools/youtools-backend/internal/apperr"
	"github.com/youtools/youtools-backend/internal/logging"
	"github.com/youtools/youtools-backend/internal/models"
)

func TestListWithSummariesEmpty(t *testing.T) {
	svc := NewVideoService(newFakeVideoRepo(), &fakeSummaryRepo{}, logging.Discard())

	_, err := svc.ListWithSummaries(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListWithSummaries(t *testing.T) {
	ctx := context.Background()
	videos := newFakeVideoRepo()
	summaries := &fakeSummaryRepo{}
	title := "Sermon A"

	a, err := videos.Create(ctx, &models.Video{VideoID: "a", Title: &title})
	require.NoError(t, err)
	_, err = videos.Create(ctx, &models.Video{VideoID: "b"})
	require.NoError(t, err)

	older := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, summaries.Create(ctx, &models.Summary{VideoID: a.ID, Content: "old", CreatedAt: older}))
	require.NoError(t, summaries.Create(ctx, &models.Summary{VideoID: a.ID, Content: "new", CreatedAt: older.Add(time.Hour)}))

	svc := NewVideoService(videos, summaries, logging.Discard())
	rows, err := svc.ListWithSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0].VideoID)
	assert.Equal(t, &title, rows[0].Title)
	assert.Equal(t, "new", rows[0].Summary)
	assert.Equal(t, "2024-05-01T10:00:00Z", rows[0].DatePosted)
	assert.Equal(t, rows[0].DatePosted, rows[0].EndTime)

	assert.Equal(t, "b", rows[1].VideoID)
	assert.Nil(t, rows[1].Title)
	assert.Empty(t, rows[1].Summary)
	assert.Empty(t, rows[1].DatePosted)
	assert.Empty(t, rows[1].EndTime)
}
