package jira

import (
	"context"
	"strconv"

	"github.com/bugsnap/backend/config"
	"github.com/bugsnap/backend/pkg/api"
)

type Endpoint struct {
	apiGenerator api.Generator
}

func New(cfg config.JiraConfigs) *Endpoint {
	return &Endpoint{
		apiGenerator: api.NewGenerator(cfg.APIBaseURL),
	}
}

// NewWithGenerator is used by tests to substitute the wire layer.
func NewWithGenerator(generator api.Generator) *Endpoint {
	return &Endpoint{apiGenerator: generator}
}

func (e *Endpoint) Myself(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/api/3/myself", cloudID).
		GET(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) SearchProjects(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/api/3/project/search", cloudID).
		GET(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) ProjectIssueTypes(
	ctx context.Context, cloudID, accessToken, projectID string,
) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/api/3/issuetype/project", cloudID).
		Query(api.Parameter{"projectId": projectID}).
		GET(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) Priorities(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/api/3/priority", cloudID).
		GET(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) SearchUsers(
	ctx context.Context, cloudID, accessToken string, maxResults int,
) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/api/3/users/search", cloudID).
		Query(api.Parameter{"maxResults": strconv.Itoa(maxResults)}).
		GET(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) Boards(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/agile/1.0/board", cloudID).
		Query(api.Parameter{"maxResults": "100"}).
		GET(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) Sprints(
	ctx context.Context, cloudID, accessToken string, boardID int,
) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/agile/1.0/board/%d/sprint", cloudID, boardID).
		Query(api.Parameter{"state": "active,future"}).
		GET(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) CreateIssue(
	ctx context.Context, cloudID, accessToken string, fields api.JSON,
) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/api/3/issue", cloudID).
		Body(api.JSON{"fields": fields}).
		POST(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) AddIssuesToSprint(
	ctx context.Context, cloudID, accessToken, sprintID string, issueKeys []string,
) (*api.Response, error) {
	keys := make(api.Array, 0, len(issueKeys))
	for _, k := range issueKeys {
		keys = append(keys, k)
	}

	return e.apiGenerator.New("/ex/jira/%s/rest/agile/1.0/sprint/%s/issue", cloudID, sprintID).
		Body(api.JSON{"issues": keys}).
		POST(ctx, api.OAuth2("Bearer", accessToken))
}

func (e *Endpoint) AttachFile(
	ctx context.Context, cloudID, accessToken, issueKey string, file api.File,
) (*api.Response, error) {
	return e.apiGenerator.New("/ex/jira/%s/rest/api/3/issue/%s/attachments", cloudID, issueKey).
		Header("X-Atlassian-Token", "no-check").
		Body(file).
		POST(ctx, api.OAuth2("Bearer", accessToken))
}
