package repository_test

import (
	"testing"

	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func Test_dailyUsageRepository_Increase(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewDailyUsageRepository()

	count, err := repo.Count(ctx, "user-id", "2026-08-28")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	require.NoError(t, repo.Increase(ctx, "user-id", "2026-08-28"))
	require.NoError(t, repo.Increase(ctx, "user-id", "2026-08-28"))

	count, err = repo.Count(ctx, "user-id", "2026-08-28")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// Another day starts from a fresh counter.
	count, err = repo.Count(ctx, "user-id", "2026-08-29")
	require.NoError(t, err)
	require.Equal(t, 0, count)
}
