package jira

import (
	"context"
	"errors"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/api"
	"github.com/bugsnap/backend/pkg/xcontext"

	"golang.org/x/oauth2"
)

// ErrRefreshRejected means the authorization server refused the refresh
// token, usually because the user revoked the grant.
var ErrRefreshRejected = errors.New("refresh request rejected")

type OAuthEndpoint struct {
	oauth2Config oauth2.Config
	apiGenerator api.Generator
	cfg          config.JiraConfigs
}

func NewOAuthEndpoint(cfg config.JiraConfigs) *OAuthEndpoint {
	return &OAuthEndpoint{
		oauth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthBaseURL + "/authorize",
				TokenURL: cfg.AuthBaseURL + "/oauth/token",
			},
		},
		apiGenerator: api.NewGenerator(cfg.AuthBaseURL),
		cfg:          cfg,
	}
}

// NewOAuthEndpointWithGenerator is used by tests to substitute the token
// endpoint while keeping the URL building of the real implementation.
func NewOAuthEndpointWithGenerator(cfg config.JiraConfigs, generator api.Generator) *OAuthEndpoint {
	endpoint := NewOAuthEndpoint(cfg)
	endpoint.apiGenerator = generator
	return endpoint
}

func (e *OAuthEndpoint) AuthCodeURL(state string) string {
	return e.oauth2Config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("audience", "api.atlassian.com"),
		// Force the account picker so a user with several Atlassian
		// accounts connects the right one.
		oauth2.SetAuthURLParam("prompt", "select_account consent"),
	)
}

func (e *OAuthEndpoint) ExchangeCode(ctx context.Context, code string) (TokenPair, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, xcontext.HTTPClient(ctx))

	token, err := e.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return TokenPair{}, err
	}

	if token.AccessToken == "" {
		return TokenPair{}, errors.New("token exchange returned no access token")
	}

	return TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

func (e *OAuthEndpoint) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	resp, err := e.apiGenerator.New("/oauth/token").
		Body(api.Parameter{
			"grant_type":    "refresh_token",
			"client_id":     e.cfg.ClientID,
			"client_secret": e.cfg.ClientSecret,
			"refresh_token": refreshToken,
		}).
		POST(ctx)
	if err != nil {
		return TokenPair{}, err
	}

	if !resp.OK() {
		xcontext.Logger(ctx).Warnf("Refresh request rejected with status %d", resp.Code)
		return TokenPair{}, ErrRefreshRejected
	}

	pair, err := ParseOne[TokenPair](resp)
	if err != nil {
		return TokenPair{}, err
	}

	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return TokenPair{}, errors.New("refresh response lacks a token pair")
	}

	return pair, nil
}

func (e *OAuthEndpoint) AccessibleSites(ctx context.Context, accessToken string) ([]Site, error) {
	generator := e.apiGenerator
	if e.cfg.APIBaseURL != "" {
		generator = api.NewGenerator(e.cfg.APIBaseURL)
	}

	resp, err := generator.New("/oauth/token/accessible-resources").
		GET(ctx, api.OAuth2("Bearer", accessToken))
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, errors.New("cannot list accessible sites")
	}

	body, ok := resp.Body.(api.Array)
	if !ok {
		return nil, errors.New("invalid body format")
	}

	return decodeSlice[Site](body)
}
