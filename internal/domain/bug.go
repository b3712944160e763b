package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bugsnap/backend/internal/common"
	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/model"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/api"
	"github.com/bugsnap/backend/pkg/api/aiprovider"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/storage"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

const thumbnailWidth = 320

type BugDomain interface {
	Generate(ctx context.Context, req *model.GenerateBugRequest) (*model.GenerateBugResponse, error)
	GetHistory(ctx context.Context, req *model.GetHistoryRequest) (*model.GetHistoryResponse, error)
	Delete(ctx context.Context, req *model.DeleteBugReportRequest) (*model.DeleteBugReportResponse, error)
	Pin(ctx context.Context, req *model.PinBugReportRequest) (*model.PinBugReportResponse, error)
}

type bugDomain struct {
	bugReportRepo  repository.BugReportRepository
	dailyUsageRepo repository.DailyUsageRepository
	userRepo       repository.UserRepository
	aiEndpoint     aiprovider.IEndpoint
	fileStorage    storage.Storage
	rateLimiter    common.RateLimiter
	idGenerator    *snowflake.Node
}

func NewBugDomain(
	bugReportRepo repository.BugReportRepository,
	dailyUsageRepo repository.DailyUsageRepository,
	userRepo repository.UserRepository,
	aiEndpoint aiprovider.IEndpoint,
	fileStorage storage.Storage,
	rateLimiter common.RateLimiter,
) BugDomain {
	idGenerator, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return &bugDomain{
		bugReportRepo:  bugReportRepo,
		dailyUsageRepo: dailyUsageRepo,
		userRepo:       userRepo,
		aiEndpoint:     aiEndpoint,
		fileStorage:    fileStorage,
		rateLimiter:    rateLimiter,
		idGenerator:    idGenerator,
	}
}

func (d *bugDomain) Generate(
	ctx context.Context, req *model.GenerateBugRequest,
) (*model.GenerateBugResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.IsBeta {
		return nil, errorx.New(errorx.NotInBeta, "Bug generation is limited to beta users for now")
	}

	if err := d.rateLimiter.Allow(ctx, userID); err != nil {
		return nil, err
	}

	cfg := xcontext.Configs(ctx)
	scenario := strings.TrimSpace(req.Scenario)

	var mime, imageHash string
	var imageData []byte
	if scenario != "" {
		if len(scenario) < 10 {
			return nil, errorx.New(errorx.BadRequest, "Describe the scenario in a few more words")
		}
	} else {
		mime, imageData, err = common.DecodeDataURL(req.Image)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid image data")
		}

		if len(imageData) > cfg.File.MaxSize {
			return nil, errorx.New(errorx.BadRequest, "The image is too large")
		}

		if _, err := common.DecodeImage(mime, imageData); err != nil {
			return nil, errorx.New(errorx.BadRequest, "The file is not a valid image")
		}

		// A screenshot we have already processed is answered from history, it
		// costs neither an AI call nor quota.
		imageHash = common.HashImage(imageData)
		cached, err := d.bugReportRepo.GetByImageHash(ctx, userID, imageHash)
		if err == nil {
			return &model.GenerateBugResponse{
				Report: model.ConvertBugReport(cached),
				Cached: true,
			}, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot look up the image hash: %v", err)
			return nil, errorx.Unknown
		}
	}

	dailyCap := cfg.Usage.FreeDailyCap
	if user.IsPro() {
		dailyCap = cfg.Usage.ProDailyCap
	}

	today := time.Now().UTC().Format(model.DefaultDateLayout)
	used, err := d.dailyUsageRepo.Count(ctx, userID, today)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the daily usage: %v", err)
		return nil, errorx.Unknown
	}

	if used >= dailyCap {
		return nil, errorx.New(errorx.LimitReached,
			"You have reached your daily limit of %d reports", dailyCap)
	}

	var title, description string
	var tags []string
	if scenario != "" {
		title, description, tags, err = d.describeScenario(ctx, scenario)
	} else {
		title, description, tags, err = d.describeImage(ctx, req.Image, req.Notes)
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot draft the report: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot generate a report right now, try again later")
	}

	var imageURL, thumbnailURL string
	if scenario == "" {
		imageURL, thumbnailURL, err = d.archiveImage(ctx, userID, mime, imageData)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot archive the image: %v", err)
			return nil, errorx.Unknown
		}
	}

	report := &entity.BugReport{
		SnowFlakeBase: entity.SnowFlakeBase{ID: int64(d.idGenerator.Generate())},
		UserID:        userID,
		Title:         title,
		Description:   description,
		Tags:          tags,
		ImageHash:     imageHash,
		ImageURL:      imageURL,
		ThumbnailURL:  thumbnailURL,
	}

	if err := d.bugReportRepo.Create(ctx, report); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the report: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.dailyUsageRepo.Increase(ctx, userID, today); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase the daily usage: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GenerateBugResponse{
		Report:    model.ConvertBugReport(report),
		Remaining: dailyCap - used - 1,
	}, nil
}

func (d *bugDomain) GetHistory(
	ctx context.Context, req *model.GetHistoryRequest,
) (*model.GetHistoryResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	reports, err := d.bugReportRepo.GetHistory(ctx, xcontext.RequestUserID(ctx), req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the history: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetHistoryResponse{Reports: []model.BugReport{}}
	for i := range reports {
		resp.Reports = append(resp.Reports, model.ConvertBugReport(&reports[i]))
	}

	return &resp, nil
}

func (d *bugDomain) Delete(
	ctx context.Context, req *model.DeleteBugReportRequest,
) (*model.DeleteBugReportResponse, error) {
	reportID, err := strconv.ParseInt(req.ID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid report id")
	}

	if err := d.bugReportRepo.Delete(ctx, xcontext.RequestUserID(ctx), reportID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete the report: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteBugReportResponse{}, nil
}

func (d *bugDomain) Pin(
	ctx context.Context, req *model.PinBugReportRequest,
) (*model.PinBugReportResponse, error) {
	reportID, err := strconv.ParseInt(req.ID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid report id")
	}

	userID := xcontext.RequestUserID(ctx)
	if _, err := d.bugReportRepo.GetByID(ctx, userID, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found the report")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the report: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.bugReportRepo.SetPinned(ctx, userID, reportID, req.Pinned); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot pin the report: %v", err)
		return nil, errorx.Unknown
	}

	return &model.PinBugReportResponse{}, nil
}

// describeImage asks the model for a report draft from a screenshot. The
// model is instructed to answer with a small JSON object; a free-form answer
// degrades to a description-only report.
func (d *bugDomain) describeImage(
	ctx context.Context, imageDataURL, notes string,
) (string, string, []string, error) {
	cfg := xcontext.Configs(ctx).AI
	if !cfg.Enabled || cfg.DummyMode {
		return dummyReport(notes)
	}

	userContent := api.Array{
		api.JSON{"type": "image_url", "image_url": api.JSON{"url": imageDataURL}},
	}
	if notes != "" {
		userContent = append(userContent, api.JSON{
			"type": "text",
			"text": "Reporter notes: " + notes,
		})
	}

	return d.draftReport(ctx, userContent)
}

// describeScenario drafts a report from a written reproduction scenario.
func (d *bugDomain) describeScenario(
	ctx context.Context, scenario string,
) (string, string, []string, error) {
	cfg := xcontext.Configs(ctx).AI
	if !cfg.Enabled || cfg.DummyMode {
		return dummyReport(scenario)
	}

	return d.draftReport(ctx, api.Array{
		api.JSON{"type": "text", "text": "Write a bug report for this scenario: " + scenario},
	})
}

func (d *bugDomain) draftReport(
	ctx context.Context, userContent api.Array,
) (string, string, []string, error) {
	cfg := xcontext.Configs(ctx).AI

	callCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	answer, err := d.aiEndpoint.ChatCompletion(callCtx, []aiprovider.Message{
		{
			Role: "system",
			Content: "You write concise bug reports from screenshots and reproduction scenarios. " +
				`Answer with a JSON object {"title", "description", "tags"} and nothing else.`,
		},
		{Role: "user", Content: userContent},
	})
	if err != nil {
		return "", "", nil, err
	}

	var draft struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(extractJSON(answer)), &draft); err != nil || draft.Title == "" {
		return "Bug report", answer, nil, nil
	}

	return draft.Title, draft.Description, draft.Tags, nil
}

func dummyReport(notes string) (string, string, []string, error) {
	description := "Placeholder report generated without an AI provider."
	if notes != "" {
		description = fmt.Sprintf("%s Reporter notes: %s", description, notes)
	}

	return "Bug report", description, []string{"needs-triage"}, nil
}

// extractJSON strips the markdown code fence some models insist on.
func extractJSON(answer string) string {
	answer = strings.TrimSpace(answer)
	if after, ok := strings.CutPrefix(answer, "```json"); ok {
		answer = after
	} else if after, ok := strings.CutPrefix(answer, "```"); ok {
		answer = after
	}

	return strings.TrimSuffix(strings.TrimSpace(answer), "```")
}

func (d *bugDomain) archiveImage(
	ctx context.Context, userID, mime string, imageData []byte,
) (string, string, error) {
	thumbnail, err := common.Thumbnail(mime, imageData, thumbnailWidth)
	if err != nil {
		return "", "", err
	}

	bucket := xcontext.Configs(ctx).Storage.Bucket
	extension := common.ExtensionByMime(mime)
	responses, err := d.fileStorage.BulkUpload(ctx, []*storage.UploadObject{
		{
			Bucket:   bucket,
			Prefix:   "screenshots/" + userID,
			FileName: "screenshot." + extension,
			Mime:     mime,
			Data:     imageData,
		},
		{
			Bucket:   bucket,
			Prefix:   "thumbnails/" + userID,
			FileName: "thumbnail." + extension,
			Mime:     mime,
			Data:     thumbnail,
		},
	})
	if err != nil {
		return "", "", err
	}

	return responses[0].Url, responses[1].Url, nil
}
