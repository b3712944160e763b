package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bugsnap/backend/internal/common"
	"github.com/bugsnap/backend/internal/domain/jiraauth"
	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/model"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/api"
	"github.com/bugsnap/backend/pkg/api/jira"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/xcontext"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type IntegrationDomain interface {
	ConnectJira(ctx context.Context, req *model.ConnectJiraRequest) (*model.ConnectJiraResponse, error)
	JiraCallback(ctx context.Context, req *model.JiraCallbackRequest) (*model.JiraCallbackResponse, error)
	DisconnectJira(ctx context.Context, req *model.DisconnectJiraRequest) (*model.DisconnectJiraResponse, error)
	GetJiraStatus(ctx context.Context, req *model.GetJiraStatusRequest) (*model.GetJiraStatusResponse, error)
	GetJiraMeta(ctx context.Context, req *model.GetJiraMetaRequest) (*model.GetJiraMetaResponse, error)
	CreateJiraIssue(ctx context.Context, req *model.CreateJiraIssueRequest) (*model.CreateJiraIssueResponse, error)
	AttachJiraImage(ctx context.Context, req *model.AttachJiraImageRequest) (*model.AttachJiraImageResponse, error)
}

type integrationDomain struct {
	integrationRepo repository.IntegrationRepository
	bugReportRepo   repository.BugReportRepository
	userRepo        repository.UserRepository
	jiraEndpoint    jira.IEndpoint
	oauthEndpoint   jira.IOAuthEndpoint
	executor        jiraauth.Executor
}

func NewIntegrationDomain(
	integrationRepo repository.IntegrationRepository,
	bugReportRepo repository.BugReportRepository,
	userRepo repository.UserRepository,
	jiraEndpoint jira.IEndpoint,
	oauthEndpoint jira.IOAuthEndpoint,
) IntegrationDomain {
	return &integrationDomain{
		integrationRepo: integrationRepo,
		bugReportRepo:   bugReportRepo,
		userRepo:        userRepo,
		jiraEndpoint:    jiraEndpoint,
		oauthEndpoint:   oauthEndpoint,
		executor: jiraauth.NewExecutor(
			integrationRepo, jiraauth.NewRefresher(integrationRepo, oauthEndpoint)),
	}
}

func (d *integrationDomain) ConnectJira(
	ctx context.Context, req *model.ConnectJiraRequest,
) (*model.ConnectJiraResponse, error) {
	if err := d.requirePro(ctx); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	state, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Jira.StateTimeout, model.JiraState{UserID: userID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the state: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.ConnectJiraResponse{AuthorizationURL: d.oauthEndpoint.AuthCodeURL(state)}
	return &resp, nil
}

func (d *integrationDomain) JiraCallback(
	ctx context.Context, req *model.JiraCallbackRequest,
) (*model.JiraCallbackResponse, error) {
	var state model.JiraState
	if err := xcontext.TokenEngine(ctx).Verify(req.State, &state); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid or expired state")
	}

	if state.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied,
			"The authorization was started by another user")
	}

	pair, err := d.oauthEndpoint.ExchangeCode(ctx, req.Code)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot exchange the authorization code: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Cannot complete the authorization")
	}

	sites, err := d.oauthEndpoint.AccessibleSites(ctx, pair.AccessToken)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list accessible sites: %v", err)
		return nil, errorx.Unknown
	}

	if len(sites) == 0 {
		return nil, errorx.New(errorx.NotFound, "Your Atlassian account has no accessible site")
	}

	err = d.integrationRepo.Upsert(ctx, &entity.Integration{
		UserID:       state.UserID,
		Provider:     entity.JiraProvider,
		SiteID:       sites[0].ID,
		SiteURL:      sites[0].URL,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store the credential: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.JiraCallbackResponse{SiteURL: sites[0].URL}
	return &resp, nil
}

func (d *integrationDomain) DisconnectJira(
	ctx context.Context, req *model.DisconnectJiraRequest,
) (*model.DisconnectJiraResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.integrationRepo.Delete(ctx, userID, entity.JiraProvider); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove the credential: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DisconnectJiraResponse{}, nil
}

func (d *integrationDomain) GetJiraStatus(
	ctx context.Context, req *model.GetJiraStatusRequest,
) (*model.GetJiraStatusResponse, error) {
	if err := d.requirePro(ctx); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	credential, err := d.integrationRepo.Get(ctx, userID, entity.JiraProvider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetJiraStatusResponse{Status: model.JiraStatusNotConnected}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get the credential: %v", err)
		return nil, errorx.Unknown
	}

	// callJira rejects non-2xx answers, so a provider outage on the identity
	// endpoint never reports CONNECTED.
	_, err = d.callJira(ctx, userID,
		func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
			return d.jiraEndpoint.Myself(ctx, cloudID, accessToken)
		})
	switch {
	case err == nil:
		return &model.GetJiraStatusResponse{
			Status:  model.JiraStatusConnected,
			SiteURL: credential.SiteURL,
		}, nil

	case errors.Is(err, jiraauth.ErrReconnectRequired):
		return &model.GetJiraStatusResponse{Status: model.JiraStatusExpired}, nil

	case errors.Is(err, jiraauth.ErrNotConnected):
		return &model.GetJiraStatusResponse{Status: model.JiraStatusNotConnected}, nil
	}

	xcontext.Logger(ctx).Errorf("Cannot probe the connection: %v", err)
	return nil, errorx.Unknown
}

func (d *integrationDomain) GetJiraMeta(
	ctx context.Context, req *model.GetJiraMetaRequest,
) (*model.GetJiraMetaResponse, error) {
	if err := d.requirePro(ctx); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	resp := model.GetJiraMetaResponse{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := d.callJira(gctx, userID,
			func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
				return d.jiraEndpoint.SearchProjects(ctx, cloudID, accessToken)
			})
		if err != nil {
			return err
		}

		projects, err := jira.ParseValues[jira.Project](r)
		if err != nil {
			return err
		}

		resp.Projects = model.ConvertJiraProjects(projects)
		return nil
	})

	g.Go(func() error {
		r, err := d.callJira(gctx, userID,
			func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
				return d.jiraEndpoint.Priorities(ctx, cloudID, accessToken)
			})
		if err != nil {
			return err
		}

		priorities, err := jira.ParseValues[jira.Priority](r)
		if err != nil {
			return err
		}

		resp.Priorities = model.ConvertJiraPriorities(priorities)
		return nil
	})

	g.Go(func() error {
		r, err := d.callJira(gctx, userID,
			func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
				return d.jiraEndpoint.SearchUsers(ctx, cloudID, accessToken, 50)
			})
		if err != nil {
			return err
		}

		users, err := jira.ParseValues[jira.User](r)
		if err != nil {
			return err
		}

		resp.Users = model.ConvertJiraUsers(users)
		return nil
	})

	// The agile API is absent on sites without Jira Software and answers 404
	// there, so boards and sprints are best-effort and never fail the whole
	// metadata response.
	g.Go(func() error {
		r, err := d.callJira(gctx, userID,
			func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
				return d.jiraEndpoint.Boards(ctx, cloudID, accessToken)
			})
		if err != nil {
			xcontext.Logger(gctx).Warnf("Cannot list the boards: %v", err)
			return nil
		}

		boards, err := jira.ParseValues[jira.Board](r)
		if err != nil {
			xcontext.Logger(gctx).Warnf("Cannot parse the boards: %v", err)
			return nil
		}

		resp.Boards = model.ConvertJiraBoards(boards)
		return nil
	})

	if req.ProjectID != "" {
		g.Go(func() error {
			r, err := d.callJira(gctx, userID,
				func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
					return d.jiraEndpoint.ProjectIssueTypes(ctx, cloudID, accessToken, req.ProjectID)
				})
			if err != nil {
				return err
			}

			issueTypes, err := jira.ParseValues[jira.IssueType](r)
			if err != nil {
				return err
			}

			resp.IssueTypes = model.ConvertJiraIssueTypes(issueTypes)
			return nil
		})
	}

	if req.BoardID != 0 {
		g.Go(func() error {
			r, err := d.callJira(gctx, userID,
				func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
					return d.jiraEndpoint.Sprints(ctx, cloudID, accessToken, req.BoardID)
				})
			if err != nil {
				xcontext.Logger(gctx).Warnf("Cannot list the sprints: %v", err)
				return nil
			}

			sprints, err := jira.ParseValues[jira.Sprint](r)
			if err != nil {
				xcontext.Logger(gctx).Warnf("Cannot parse the sprints: %v", err)
				return nil
			}

			resp.Sprints = model.ConvertJiraSprints(sprints)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, d.convertJiraError(ctx, err)
	}

	return &resp, nil
}

func (d *integrationDomain) CreateJiraIssue(
	ctx context.Context, req *model.CreateJiraIssueRequest,
) (*model.CreateJiraIssueResponse, error) {
	if err := d.requirePro(ctx); err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)

	var report *entity.BugReport
	if req.ReportID != "" {
		reportID, err := strconv.ParseInt(req.ReportID, 10, 64)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid report id")
		}

		report, err = d.bugReportRepo.GetByID(ctx, userID, reportID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found the report")
			}

			xcontext.Logger(ctx).Errorf("Cannot get the report: %v", err)
			return nil, errorx.Unknown
		}
	}

	summary := req.Summary
	description := req.Description
	labels := req.Labels
	if report != nil {
		if summary == "" {
			summary = report.Title
		}
		if description == "" {
			description = report.Description
		}
		if len(labels) == 0 {
			labels = report.Tags
		}
	}

	if summary == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty summary")
	}

	if req.ProjectID == "" || req.IssueTypeID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty project or issue type")
	}

	fields := api.JSON{
		"project":     api.JSON{"id": req.ProjectID},
		"issuetype":   api.JSON{"id": req.IssueTypeID},
		"summary":     summary,
		"description": adfDocument(description),
	}

	if req.PriorityID != "" {
		fields["priority"] = api.JSON{"id": req.PriorityID}
	}

	if req.AssigneeID != "" {
		fields["assignee"] = api.JSON{"id": req.AssigneeID}
	}

	if len(labels) > 0 {
		labelValues := make(api.Array, 0, len(labels))
		for _, label := range labels {
			labelValues = append(labelValues, label)
		}
		fields["labels"] = labelValues
	}

	r, err := d.callJira(ctx, userID,
		func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
			return d.jiraEndpoint.CreateIssue(ctx, cloudID, accessToken, fields)
		})
	if err != nil {
		return nil, d.convertJiraError(ctx, err)
	}

	created, err := jira.ParseOne[jira.CreatedIssue](r)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot parse the created issue: %v", err)
		return nil, errorx.Unknown
	}

	// The issue exists from here on. Follow-up failures lose decoration, not
	// the issue, so they only warn.
	if req.SprintID != "" {
		_, err := d.callJira(ctx, userID,
			func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
				return d.jiraEndpoint.AddIssuesToSprint(
					ctx, cloudID, accessToken, req.SprintID, []string{created.Key})
			})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot move the issue to sprint: %v", err)
		}
	}

	if req.AttachScreenshot && report != nil && report.ImageURL != "" {
		if err := d.attachScreenshot(ctx, userID, created.Key, report); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot attach the screenshot: %v", err)
		}
	}

	if report != nil {
		if err := d.bugReportRepo.SetIssueKey(ctx, userID, report.ID, created.Key); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot record the issue key: %v", err)
		}
	}

	resp := model.CreateJiraIssueResponse{Key: created.Key}
	if credential, err := d.integrationRepo.Get(ctx, userID, entity.JiraProvider); err == nil {
		resp.URL = fmt.Sprintf("%s/browse/%s", credential.SiteURL, created.Key)
	}

	return &resp, nil
}

func (d *integrationDomain) AttachJiraImage(
	ctx context.Context, req *model.AttachJiraImageRequest,
) (*model.AttachJiraImageResponse, error) {
	if err := d.requirePro(ctx); err != nil {
		return nil, err
	}

	if req.IssueKey == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty issue key")
	}

	mime, data, err := common.DecodeDataURL(req.Image)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid image data")
	}

	if len(data) > xcontext.Configs(ctx).File.MaxSize {
		return nil, errorx.New(errorx.BadRequest, "The image is too large")
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "screenshot." + common.ExtensionByMime(mime)
	}

	userID := xcontext.RequestUserID(ctx)
	_, err = d.callJira(ctx, userID,
		func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
			return d.jiraEndpoint.AttachFile(ctx, cloudID, accessToken, req.IssueKey, api.File{
				FieldName: "file",
				FileName:  fileName,
				Mime:      mime,
				Data:      data,
			})
		})
	if err != nil {
		return nil, d.convertJiraError(ctx, err)
	}

	return &model.AttachJiraImageResponse{}, nil
}

// requirePro guards every Jira operation. A user who downgraded keeps the
// stored credential but loses access to it until they upgrade again.
func (d *integrationDomain) requirePro(ctx context.Context) error {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return errorx.Unknown
	}

	if !user.IsPro() {
		return errorx.New(errorx.ProOnly, "Exporting to Jira requires a Pro plan")
	}

	return nil
}

// callJira wraps executor.Do and turns a non-2xx provider answer into an
// error, so callers handle one failure path only.
func (d *integrationDomain) callJira(
	ctx context.Context, userID string, call jiraauth.Call,
) (*api.Response, error) {
	resp, err := d.executor.Do(ctx, userID, call)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, fmt.Errorf("provider returned status %d: %v", resp.Code, resp.Body)
	}

	return resp, nil
}

func (d *integrationDomain) convertJiraError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, jiraauth.ErrNotConnected):
		return errorx.New(errorx.NotConnected, "You have not connected Jira yet")
	case errors.Is(err, jiraauth.ErrReconnectRequired):
		return errorx.New(errorx.ReconnectRequired, "Your Jira connection expired, please reconnect")
	}

	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx
	}

	xcontext.Logger(ctx).Errorf("Jira request failed: %v", err)
	return errorx.Unknown
}

func (d *integrationDomain) attachScreenshot(
	ctx context.Context, userID, issueKey string, report *entity.BugReport,
) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, report.ImageURL, nil)
	if err != nil {
		return err
	}

	httpResp, err := xcontext.HTTPClient(ctx).Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot download the screenshot (status %d)", httpResp.StatusCode)
	}

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return err
	}

	mime := httpResp.Header.Get("Content-Type")
	_, err = d.callJira(ctx, userID,
		func(ctx context.Context, cloudID, accessToken string) (*api.Response, error) {
			return d.jiraEndpoint.AttachFile(ctx, cloudID, accessToken, issueKey, api.File{
				FieldName: "file",
				FileName:  "screenshot." + common.ExtensionByMime(mime),
				Mime:      mime,
				Data:      data,
			})
		})
	return err
}

// adfDocument renders plain text as an Atlassian Document Format body, one
// paragraph per line.
func adfDocument(text string) api.JSON {
	content := api.Array{}
	for _, line := range strings.Split(text, "\n") {
		paragraph := api.JSON{"type": "paragraph", "content": api.Array{}}
		if line != "" {
			paragraph["content"] = api.Array{
				api.JSON{"type": "text", "text": line},
			}
		}

		content = append(content, paragraph)
	}

	return api.JSON{
		"type":    "doc",
		"version": 1,
		"content": content,
	}
}
