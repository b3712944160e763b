package jira

import (
	"context"

	"github.com/bugsnap/backend/pkg/api"
)

// IEndpoint is the raw wire surface of the Jira Cloud REST API. Every method
// performs exactly one HTTP call with the given bearer token and returns the
// response as-is; retry and refresh policy live with the caller.
type IEndpoint interface {
	Myself(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	SearchProjects(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	ProjectIssueTypes(ctx context.Context, cloudID, accessToken, projectID string) (*api.Response, error)
	Priorities(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	SearchUsers(ctx context.Context, cloudID, accessToken string, maxResults int) (*api.Response, error)
	Boards(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	Sprints(ctx context.Context, cloudID, accessToken string, boardID int) (*api.Response, error)
	CreateIssue(ctx context.Context, cloudID, accessToken string, fields api.JSON) (*api.Response, error)
	AddIssuesToSprint(ctx context.Context, cloudID, accessToken, sprintID string, issueKeys []string) (*api.Response, error)
	AttachFile(ctx context.Context, cloudID, accessToken, issueKey string, file api.File) (*api.Response, error)
}

// IOAuthEndpoint talks to the Atlassian authorization server with the
// application client identity. One token-endpoint attempt per invocation.
type IOAuthEndpoint interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error)
	AccessibleSites(ctx context.Context, accessToken string) ([]Site, error)
}
