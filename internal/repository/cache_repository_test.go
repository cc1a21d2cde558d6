package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]interface{}
	err := repo.Get(ctx, "gpa:cgpa:u1", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, repo.Set(ctx, "gpa:cgpa:u1", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, repo.Delete(ctx, "gpa:cgpa:u1"))
	require.NoError(t, repo.DeleteByPattern(ctx, "gpa:batch:*"))
	require.NoError(t, repo.Close())
}
