package repository_test

import (
	"testing"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/reflectutil"
	"github.com/bugsnap/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_integrationRepository_Upsert_overwritesCredential(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewIntegrationRepository()

	require.NoError(t, repo.Upsert(ctx, &entity.Integration{
		UserID:       "user-id",
		Provider:     entity.JiraProvider,
		SiteID:       "site-1",
		SiteURL:      "https://first.atlassian.net",
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
	}))

	require.NoError(t, repo.Upsert(ctx, &entity.Integration{
		UserID:       "user-id",
		Provider:     entity.JiraProvider,
		SiteID:       "site-2",
		SiteURL:      "https://second.atlassian.net",
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
	}))

	record, err := repo.Get(ctx, "user-id", entity.JiraProvider)
	require.NoError(t, err)

	want := &entity.Integration{
		UserID:       "user-id",
		Provider:     entity.JiraProvider,
		SiteID:       "site-2",
		SiteURL:      "https://second.atlassian.net",
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
	}
	require.True(t, reflectutil.PartialEqual(want, record), "%v != %v", want, record)
}

func Test_integrationRepository_Get_scopedByUserAndProvider(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewIntegrationRepository()

	integration, err := testutil.SampleIntegration(ctx, nil)
	require.NoError(t, err)

	_, err = repo.Get(ctx, integration.UserID, "linear")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Get(ctx, "another-user", entity.JiraProvider)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_integrationRepository_Delete_isIdempotent(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewIntegrationRepository()

	integration, err := testutil.SampleIntegration(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, integration.UserID, entity.JiraProvider))
	_, err = repo.Get(ctx, integration.UserID, entity.JiraProvider)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Deleting an already removed credential is not an error.
	require.NoError(t, repo.Delete(ctx, integration.UserID, entity.JiraProvider))
}
