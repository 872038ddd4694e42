package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/sma-portal/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "sma", nil)
	ctx := context.Background()

	var dest []map[string]any
	assert.ErrorIs(t, repo.Get(ctx, "records:grades", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "records:grades", []string{"x"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "records:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
	assert.Equal(t, "sma:records:grades", repo.key("records:grades"))
}
