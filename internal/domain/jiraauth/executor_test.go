package jiraauth

import (
	"context"
	"testing"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/api"
	"github.com/bugsnap/backend/pkg/api/jira"
	"github.com/bugsnap/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupExecutor(t *testing.T, oauthEndpoint jira.IOAuthEndpoint) (context.Context, entity.User, Executor) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	integrationRepo := repository.NewIntegrationRepository()
	executor := NewExecutor(integrationRepo, NewRefresher(integrationRepo, oauthEndpoint))
	return ctx, user, executor
}

func Test_executor_Do_successWithoutRefresh(t *testing.T) {
	refreshCalled := 0
	oauthEndpoint := &jira.MockOAuthEndpoint{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (jira.TokenPair, error) {
			refreshCalled++
			return jira.TokenPair{}, nil
		},
	}

	ctx, user, executor := setupExecutor(t, oauthEndpoint)
	_, err := testutil.SampleIntegration(ctx, &entity.Integration{
		UserID: user.ID, SiteID: "site", AccessToken: "valid", RefreshToken: "refresh",
	})
	require.NoError(t, err)

	var gotToken string
	resp, err := executor.Do(ctx, user.ID, func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
		gotToken = accessToken
		return &api.Response{Code: 200}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 200, resp.Code)
	require.Equal(t, "valid", gotToken)
	require.Zero(t, refreshCalled)
}

func Test_executor_Do_refreshesAndRetriesOnce(t *testing.T) {
	oauthEndpoint := &jira.MockOAuthEndpoint{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (jira.TokenPair, error) {
			require.Equal(t, "old-refresh", refreshToken)
			return jira.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	ctx, user, executor := setupExecutor(t, oauthEndpoint)
	_, err := testutil.SampleIntegration(ctx, &entity.Integration{
		UserID: user.ID, SiteID: "site", AccessToken: "old-access", RefreshToken: "old-refresh",
	})
	require.NoError(t, err)

	var tokensSeen []string
	resp, err := executor.Do(ctx, user.ID, func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
		tokensSeen = append(tokensSeen, accessToken)
		if accessToken == "old-access" {
			return &api.Response{Code: 401}, nil
		}
		return &api.Response{Code: 200}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 200, resp.Code)
	require.Equal(t, []string{"old-access", "new-access"}, tokensSeen)

	// Both tokens must have been rotated together.
	credential, err := repository.NewIntegrationRepository().Get(ctx, user.ID, entity.JiraProvider)
	require.NoError(t, err)
	require.Equal(t, "new-access", credential.AccessToken)
	require.Equal(t, "new-refresh", credential.RefreshToken)
}

func Test_executor_Do_secondRejectionIsTerminal(t *testing.T) {
	refreshCalled := 0
	oauthEndpoint := &jira.MockOAuthEndpoint{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (jira.TokenPair, error) {
			refreshCalled++
			return jira.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
		},
	}

	ctx, user, executor := setupExecutor(t, oauthEndpoint)
	_, err := testutil.SampleIntegration(ctx, &entity.Integration{
		UserID: user.ID, SiteID: "site", AccessToken: "old-access", RefreshToken: "old-refresh",
	})
	require.NoError(t, err)

	calls := 0
	_, err = executor.Do(ctx, user.ID, func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
		calls++
		return &api.Response{Code: 401}, nil
	})
	require.ErrorIs(t, err, ErrReconnectRequired)
	require.Equal(t, 2, calls)
	require.Equal(t, 1, refreshCalled)

	// The broken credential must be gone.
	_, err = repository.NewIntegrationRepository().Get(ctx, user.ID, entity.JiraProvider)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_executor_Do_refreshFailureIsTerminal(t *testing.T) {
	oauthEndpoint := &jira.MockOAuthEndpoint{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (jira.TokenPair, error) {
			return jira.TokenPair{}, jira.ErrRefreshRejected
		},
	}

	ctx, user, executor := setupExecutor(t, oauthEndpoint)
	_, err := testutil.SampleIntegration(ctx, &entity.Integration{
		UserID: user.ID, SiteID: "site", AccessToken: "old-access", RefreshToken: "revoked",
	})
	require.NoError(t, err)

	calls := 0
	_, err = executor.Do(ctx, user.ID, func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
		calls++
		return &api.Response{Code: 403}, nil
	})
	require.ErrorIs(t, err, ErrReconnectRequired)
	require.Equal(t, 1, calls)

	_, err = repository.NewIntegrationRepository().Get(ctx, user.ID, entity.JiraProvider)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_executor_Do_withoutCredential(t *testing.T) {
	ctx, user, executor := setupExecutor(t, &jira.MockOAuthEndpoint{})

	_, err := executor.Do(ctx, user.ID, func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
		t.Fatal("the provider must not be called without a credential")
		return nil, nil
	})
	require.ErrorIs(t, err, ErrNotConnected)
}

func Test_executor_Do_serverErrorPassesThrough(t *testing.T) {
	refreshCalled := 0
	oauthEndpoint := &jira.MockOAuthEndpoint{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (jira.TokenPair, error) {
			refreshCalled++
			return jira.TokenPair{}, nil
		},
	}

	ctx, user, executor := setupExecutor(t, oauthEndpoint)
	_, err := testutil.SampleIntegration(ctx, &entity.Integration{
		UserID: user.ID, SiteID: "site", AccessToken: "valid", RefreshToken: "refresh",
	})
	require.NoError(t, err)

	// Only 401 and 403 mean anything about the token. Any other status goes
	// back to the caller untouched, without a refresh or a retry.
	calls := 0
	resp, err := executor.Do(ctx, user.ID, func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
		calls++
		return &api.Response{Code: 500}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 500, resp.Code)
	require.Equal(t, 1, calls)
	require.Zero(t, refreshCalled)

	credential, err := repository.NewIntegrationRepository().Get(ctx, user.ID, entity.JiraProvider)
	require.NoError(t, err)
	require.Equal(t, "valid", credential.AccessToken)
}

func Test_executor_Do_callErrorIsNotRetried(t *testing.T) {
	refreshCalled := 0
	oauthEndpoint := &jira.MockOAuthEndpoint{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (jira.TokenPair, error) {
			refreshCalled++
			return jira.TokenPair{}, nil
		},
	}

	ctx, user, executor := setupExecutor(t, oauthEndpoint)
	_, err := testutil.SampleIntegration(ctx, &entity.Integration{
		UserID: user.ID, SiteID: "site", AccessToken: "valid", RefreshToken: "refresh",
	})
	require.NoError(t, err)

	calls := 0
	_, err = executor.Do(ctx, user.ID, func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
		calls++
		return nil, context.DeadlineExceeded
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, calls)
	require.Zero(t, refreshCalled)

	// Transport problems say nothing about the token, the credential stays.
	_, err = repository.NewIntegrationRepository().Get(ctx, user.ID, entity.JiraProvider)
	require.NoError(t, err)
}
