package jira

import (
	"context"

	"github.com/bugsnap/backend/pkg/api"
)

type MockEndpoint struct {
	MyselfFunc            func(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	SearchProjectsFunc    func(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	ProjectIssueTypesFunc func(ctx context.Context, cloudID, accessToken, projectID string) (*api.Response, error)
	PrioritiesFunc        func(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	SearchUsersFunc       func(ctx context.Context, cloudID, accessToken string, maxResults int) (*api.Response, error)
	BoardsFunc            func(ctx context.Context, cloudID, accessToken string) (*api.Response, error)
	SprintsFunc           func(ctx context.Context, cloudID, accessToken string, boardID int) (*api.Response, error)
	CreateIssueFunc       func(ctx context.Context, cloudID, accessToken string, fields api.JSON) (*api.Response, error)
	AddIssuesToSprintFunc func(ctx context.Context, cloudID, accessToken, sprintID string, issueKeys []string) (*api.Response, error)
	AttachFileFunc        func(ctx context.Context, cloudID, accessToken, issueKey string, file api.File) (*api.Response, error)
}

func (m *MockEndpoint) Myself(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	if m.MyselfFunc != nil {
		return m.MyselfFunc(ctx, cloudID, accessToken)
	}
	panic("not implemented")
}

func (m *MockEndpoint) SearchProjects(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	if m.SearchProjectsFunc != nil {
		return m.SearchProjectsFunc(ctx, cloudID, accessToken)
	}
	panic("not implemented")
}

func (m *MockEndpoint) ProjectIssueTypes(ctx context.Context, cloudID, accessToken, projectID string) (*api.Response, error) {
	if m.ProjectIssueTypesFunc != nil {
		return m.ProjectIssueTypesFunc(ctx, cloudID, accessToken, projectID)
	}
	panic("not implemented")
}

func (m *MockEndpoint) Priorities(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	if m.PrioritiesFunc != nil {
		return m.PrioritiesFunc(ctx, cloudID, accessToken)
	}
	panic("not implemented")
}

func (m *MockEndpoint) SearchUsers(ctx context.Context, cloudID, accessToken string, maxResults int) (*api.Response, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, cloudID, accessToken, maxResults)
	}
	panic("not implemented")
}

func (m *MockEndpoint) Boards(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
	if m.BoardsFunc != nil {
		return m.BoardsFunc(ctx, cloudID, accessToken)
	}
	panic("not implemented")
}

func (m *MockEndpoint) Sprints(ctx context.Context, cloudID, accessToken string, boardID int) (*api.Response, error) {
	if m.SprintsFunc != nil {
		return m.SprintsFunc(ctx, cloudID, accessToken, boardID)
	}
	panic("not implemented")
}

func (m *MockEndpoint) CreateIssue(ctx context.Context, cloudID, accessToken string, fields api.JSON) (*api.Response, error) {
	if m.CreateIssueFunc != nil {
		return m.CreateIssueFunc(ctx, cloudID, accessToken, fields)
	}
	panic("not implemented")
}

func (m *MockEndpoint) AddIssuesToSprint(ctx context.Context, cloudID, accessToken, sprintID string, issueKeys []string) (*api.Response, error) {
	if m.AddIssuesToSprintFunc != nil {
		return m.AddIssuesToSprintFunc(ctx, cloudID, accessToken, sprintID, issueKeys)
	}
	panic("not implemented")
}

func (m *MockEndpoint) AttachFile(ctx context.Context, cloudID, accessToken, issueKey string, file api.File) (*api.Response, error) {
	if m.AttachFileFunc != nil {
		return m.AttachFileFunc(ctx, cloudID, accessToken, issueKey, file)
	}
	panic("not implemented")
}

type MockOAuthEndpoint struct {
	AuthCodeURLFunc     func(state string) string
	ExchangeCodeFunc    func(ctx context.Context, code string) (TokenPair, error)
	RefreshTokenFunc    func(ctx context.Context, refreshToken string) (TokenPair, error)
	AccessibleSitesFunc func(ctx context.Context, accessToken string) ([]Site, error)
}

func (m *MockOAuthEndpoint) AuthCodeURL(state string) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state)
	}
	return "https://example.com/authorize?state=" + state
}

func (m *MockOAuthEndpoint) ExchangeCode(ctx context.Context, code string) (TokenPair, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	panic("not implemented")
}

func (m *MockOAuthEndpoint) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	panic("not implemented")
}

func (m *MockOAuthEndpoint) AccessibleSites(ctx context.Context, accessToken string) ([]Site, error) {
	if m.AccessibleSitesFunc != nil {
		return m.AccessibleSitesFunc(ctx, accessToken)
	}
	panic("not implemented")
}
