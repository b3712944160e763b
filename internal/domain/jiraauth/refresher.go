// Package jiraauth keeps Jira credentials usable behind the scenes. It owns
// token refresh and the retry of rejected calls, so the feature domains never
// touch a refresh token themselves.
package jiraauth

import (
	"context"
	"errors"
	"sync"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/api/jira"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

var ErrNotConnected = errors.New("no jira connection")

type Refresher interface {
	Refresh(ctx context.Context, userID, staleAccessToken string) (*entity.Integration, error)
}

type refresher struct {
	integrationRepo repository.IntegrationRepository
	oauthEndpoint   jira.IOAuthEndpoint

	// One mutex per user serializes refreshes of the same credential.
	mutexes *xsync.MapOf[string, *sync.Mutex]
}

func NewRefresher(
	integrationRepo repository.IntegrationRepository,
	oauthEndpoint jira.IOAuthEndpoint,
) Refresher {
	return &refresher{
		integrationRepo: integrationRepo,
		oauthEndpoint:   oauthEndpoint,
		mutexes:         xsync.NewMapOf[*sync.Mutex](),
	}
}

// Refresh exchanges the stored refresh token for a new token pair and writes
// the pair back in one shot. staleAccessToken is the token the caller just
// saw rejected: if the stored credential already differs from it, another
// request refreshed while we waited for the lock and the stored one is
// returned as is.
func (r *refresher) Refresh(ctx context.Context, userID, staleAccessToken string) (*entity.Integration, error) {
	mutex, _ := r.mutexes.LoadOrStore(userID, &sync.Mutex{})
	mutex.Lock()
	defer mutex.Unlock()

	credential, err := r.integrationRepo.Get(ctx, userID, entity.JiraProvider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotConnected
		}

		xcontext.Logger(ctx).Errorf("Cannot get the jira credential: %v", err)
		return nil, err
	}

	if credential.AccessToken != staleAccessToken {
		return credential, nil
	}

	if credential.RefreshToken == "" {
		return nil, errors.New("credential has no refresh token")
	}

	pair, err := r.oauthEndpoint.RefreshToken(ctx, credential.RefreshToken)
	if err != nil {
		return nil, err
	}

	credential.AccessToken = pair.AccessToken
	credential.RefreshToken = pair.RefreshToken
	if err := r.integrationRepo.Upsert(ctx, credential); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store the refreshed credential: %v", err)
		return nil, err
	}

	return credential, nil
}
