package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) Delete(_ context.Context, key string) error {
	delete(s.store, key)
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.store {
		if strings.HasPrefix(key, prefix) {
			delete(s.store, key)
		}
	}
	return nil
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", 1, 0))
	assert.Empty(t, repo.store)

	var out int
	hit, err := svc.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	require.NoError(t, nilSvc.Delete(ctx, "k"))
}

func TestCacheServiceRoundTripAndInvalidate(t *testing.T) {
	repo := &stubCacheRepo{}
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "gpa:batch:FIRST_YEAR", map[string]float64{"avg": 3.1}, 0))
	require.NoError(t, svc.Set(ctx, "gpa:cgpa:u1", map[string]float64{"cgpa": 3.5}, 0))

	var out map[string]float64
	hit, err := svc.Get(ctx, "gpa:cgpa:u1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3.5, out["cgpa"])

	require.NoError(t, svc.Invalidate(ctx, "gpa:batch:*"))
	require.NoError(t, svc.Delete(ctx, "gpa:cgpa:u1"))
	assert.Empty(t, repo.store)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
}
