package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/dto"
	"github.com/noah-isme/campus-gpa-api/internal/models"
	"github.com/noah-isme/campus-gpa-api/pkg/jobs"
)

type countingBatches struct {
	mu    sync.Mutex
	years []models.UniYear
}

func (c *countingBatches) BatchAverage(_ context.Context, uniYear models.UniYear) (*models.BatchAverage, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years = append(c.years, uniYear)
	return &models.BatchAverage{UniYear: uniYear}, false, nil
}

func (c *countingBatches) seen() []models.UniYear {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.UniYear(nil), c.years...)
}

type recordingWarmer struct {
	years []models.UniYear
}

func (r *recordingWarmer) Warm(uniYear models.UniYear) {
	r.years = append(r.years, uniYear)
}

func TestBatchWarmerRecomputesCohort(t *testing.T) {
	batches := &countingBatches{}
	warmer := NewBatchWarmer(batches, jobs.QueueConfig{Workers: 1, Logger: zap.NewNop()})
	warmer.Start(context.Background())
	defer warmer.Stop()

	warmer.Warm(models.UniYearThird)
	warmer.Warm(models.UniYear("NOT_A_YEAR"))

	require.Eventually(t, func() bool { return len(batches.seen()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []models.UniYear{models.UniYearThird}, batches.seen())
}

func TestBatchWarmerNilIsNoop(t *testing.T) {
	var warmer *BatchWarmer
	assert.NotPanics(t, func() { warmer.Warm(models.UniYearFirst) })
}

func TestSemesterGPAWriteSchedulesCohortWarm(t *testing.T) {
	repo := newMemorySemesterRepo()
	dir := newFakeCohortDirectory("u1", "u2").withYear("u1", models.UniYearSecond)
	cache := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := newTestSemesterService(repo, dir, cache, "")
	warmer := &recordingWarmer{}
	svc.SetBatchWarmer(warmer)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}))
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "u2", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "u1", "FIRST"))

	assert.Equal(t, []models.UniYear{models.UniYearSecond, models.UniYearSecond}, warmer.years)
}

func TestSemesterGPAWarmSkippedWithoutCache(t *testing.T) {
	repo := newMemorySemesterRepo()
	dir := newFakeCohortDirectory("u1").withYear("u1", models.UniYearSecond)
	svc := newTestSemesterService(repo, dir, nil, "")
	warmer := &recordingWarmer{}
	svc.SetBatchWarmer(warmer)

	_, err := svc.Upsert(context.Background(), "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}))
	require.NoError(t, err)
	assert.Empty(t, warmer.years)
}
