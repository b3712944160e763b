package jiraauth

import (
	"context"
	"errors"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/api"
	"github.com/bugsnap/backend/pkg/xcontext"

	"gorm.io/gorm"
)

// ErrReconnectRequired means the stored grant is gone for good. The caller
// must send the user through the authorization flow again.
var ErrReconnectRequired = errors.New("jira authorization is no longer valid")

// Call performs one provider request with the given site and access token.
type Call func(ctx context.Context, cloudID, accessToken string) (*api.Response, error)

// Executor runs provider calls on behalf of a user. When the provider
// rejects the access token, it refreshes the credential and retries the call
// exactly once; a second rejection invalidates the connection.
type Executor interface {
	Do(ctx context.Context, userID string, call Call) (*api.Response, error)
}

type executor struct {
	integrationRepo repository.IntegrationRepository
	refresher       Refresher
}

func NewExecutor(integrationRepo repository.IntegrationRepository, refresher Refresher) Executor {
	return &executor{
		integrationRepo: integrationRepo,
		refresher:       refresher,
	}
}

func (e *executor) Do(ctx context.Context, userID string, call Call) (*api.Response, error) {
	credential, err := e.integrationRepo.Get(ctx, userID, entity.JiraProvider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConnected
		}

		xcontext.Logger(ctx).Errorf("Cannot get the jira credential: %v", err)
		return nil, err
	}

	resp, err := call(ctx, credential.SiteID, credential.AccessToken)
	if err != nil {
		return nil, err
	}

	if !resp.IsAuthFailure() {
		return resp, nil
	}

	refreshed, err := e.refresher.Refresh(ctx, userID, credential.AccessToken)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return nil, ErrNotConnected
		}

		xcontext.Logger(ctx).Warnf("Cannot refresh the jira credential of %s: %v", userID, err)
		return nil, e.invalidate(ctx, userID)
	}

	resp, err = call(ctx, refreshed.SiteID, refreshed.AccessToken)
	if err != nil {
		return nil, err
	}

	if resp.IsAuthFailure() {
		// A fresh token was rejected, so the grant itself is dead. No
		// further retry can help.
		xcontext.Logger(ctx).Warnf("Provider rejected a refreshed token of %s", userID)
		return nil, e.invalidate(ctx, userID)
	}

	return resp, nil
}

// invalidate drops the broken credential, so the next attempt reports a
// missing connection instead of failing the same way again.
func (e *executor) invalidate(ctx context.Context, userID string) error {
	if err := e.integrationRepo.Delete(ctx, userID, entity.JiraProvider); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove the invalid credential of %s: %v", userID, err)
	}

	return ErrReconnectRequired
}
