package jira

import (
	"context"
	"testing"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/api"

	"github.com/stretchr/testify/require"
)

func testJiraConfigs() config.JiraConfigs {
	return config.JiraConfigs{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://bugsnap.example/api/jira/callback",
		AuthBaseURL:  "https://auth.atlassian.com",
		APIBaseURL:   "https://api.atlassian.com",
		Scopes:       []string{"read:jira-work", "offline_access"},
	}
}

func refreshEndpoint(t *testing.T, response *api.Response) (*OAuthEndpoint, *api.Parameter) {
	var sentBody api.Parameter
	client := &api.MockClient{}
	client.BodyFunc = func(body api.Body) api.Client {
		params, ok := body.(api.Parameter)
		require.True(t, ok)
		sentBody = params
		return client
	}
	client.POSTFunc = func(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
		return response, nil
	}

	generator := &api.MockGenerator{
		NewFunc: func(path string, args ...any) api.Client {
			require.Equal(t, "/oauth/token", path)
			return client
		},
	}

	return NewOAuthEndpointWithGenerator(testJiraConfigs(), generator), &sentBody
}

func Test_OAuthEndpoint_RefreshToken(t *testing.T) {
	endpoint, sentBody := refreshEndpoint(t, &api.Response{
		Code: 200,
		Body: api.JSON{
			"access_token":  "new-access",
			"refresh_token": "new-refresh",
			"expires_in":    float64(3600),
		},
	})

	pair, err := endpoint.RefreshToken(context.Background(), "old-refresh")
	require.NoError(t, err)
	require.Equal(t, TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, pair)

	require.Equal(t, "refresh_token", (*sentBody)["grant_type"])
	require.Equal(t, "old-refresh", (*sentBody)["refresh_token"])
	require.Equal(t, "client-id", (*sentBody)["client_id"])
	require.Equal(t, "client-secret", (*sentBody)["client_secret"])
}

func Test_OAuthEndpoint_RefreshToken_rejected(t *testing.T) {
	endpoint, _ := refreshEndpoint(t, &api.Response{
		Code: 403,
		Body: api.JSON{"error": "invalid_grant"},
	})

	_, err := endpoint.RefreshToken(context.Background(), "revoked")
	require.ErrorIs(t, err, ErrRefreshRejected)
}

func Test_OAuthEndpoint_RefreshToken_incompletePair(t *testing.T) {
	// A rotating-token server always answers with both tokens; a missing
	// refresh token must not silently truncate the stored credential.
	endpoint, _ := refreshEndpoint(t, &api.Response{
		Code: 200,
		Body: api.JSON{"access_token": "new-access"},
	})

	_, err := endpoint.RefreshToken(context.Background(), "old-refresh")
	require.Error(t, err)
}

func Test_OAuthEndpoint_AuthCodeURL(t *testing.T) {
	endpoint := NewOAuthEndpoint(testJiraConfigs())

	url := endpoint.AuthCodeURL("signed-state")
	require.Contains(t, url, "https://auth.atlassian.com/authorize")
	require.Contains(t, url, "state=signed-state")
	require.Contains(t, url, "audience=api.atlassian.com")
	require.Contains(t, url, "client_id=client-id")
}
