package domain

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/bugsnap/backend/internal/common"
	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/model"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/api/aiprovider"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/storage"
	"github.com/bugsnap/backend/pkg/testutil"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

// An 8x8 red square, small enough to inline.
const samplePNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAgAAAAICAIAAABLbSncAAAAEklEQVR4nGP4z8CAFWEXHbQSACj/P8Fu7N9hAAAAAElFTkSuQmCC"

func newTestBugDomain(aiEndpoint aiprovider.IEndpoint, fileStorage storage.Storage) BugDomain {
	if fileStorage == nil {
		fileStorage = &storage.MockStorage{
			BulkUploadFunc: func(ctx context.Context, objects []*storage.UploadObject) ([]*storage.UploadResponse, error) {
				responses := make([]*storage.UploadResponse, 0, len(objects))
				for _, object := range objects {
					responses = append(responses, &storage.UploadResponse{
						Url: "https://cdn.example.com/" + object.Prefix + "/" + object.FileName,
					})
				}
				return responses, nil
			},
		}
	}

	return NewBugDomain(
		repository.NewBugReportRepository(),
		repository.NewDailyUsageRepository(),
		repository.NewUserRepository(),
		aiEndpoint,
		fileStorage,
		&common.MockRateLimiter{},
	)
}

func betaUserContext(t *testing.T, init *entity.User) context.Context {
	ctx := testutil.MockContext()

	if init == nil {
		init = &entity.User{}
	}
	init.IsBeta = true

	user, err := testutil.SampleUser(ctx, init)
	require.NoError(t, err)

	return xcontext.WithRequestUserID(ctx, user.ID)
}

func Test_bugDomain_Generate(t *testing.T) {
	ctx := betaUserContext(t, nil)
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	resp, err := domain.Generate(ctx, &model.GenerateBugRequest{
		Image: samplePNG,
		Notes: "the login button does nothing",
	})
	require.NoError(t, err)
	require.False(t, resp.Cached)
	require.NotEmpty(t, resp.Report.ID)
	require.NotEmpty(t, resp.Report.Title)
	require.Contains(t, resp.Report.ImageURL, "screenshots/")
	require.Contains(t, resp.Report.ThumbnailURL, "thumbnails/")

	// The free plan allows 3 reports a day in the test configs.
	require.Equal(t, 2, resp.Remaining)
}

func Test_bugDomain_Generate_fromScenario(t *testing.T) {
	ctx := betaUserContext(t, nil)

	// No storage mock: a scenario report has no screenshot to archive.
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, &storage.MockStorage{})

	resp, err := domain.Generate(ctx, &model.GenerateBugRequest{
		Scenario: "Open the settings page and toggle dark mode twice, the page goes blank.",
	})
	require.NoError(t, err)
	require.False(t, resp.Cached)
	require.NotEmpty(t, resp.Report.Title)
	require.Empty(t, resp.Report.ImageURL)

	_, err = domain.Generate(ctx, &model.GenerateBugRequest{Scenario: "too short"})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_bugDomain_Generate_requiresBetaAccess(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	_, err = domain.Generate(ctx, &model.GenerateBugRequest{Image: samplePNG})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotInBeta, errx.Code)
}

func Test_bugDomain_Generate_rejectsInvalidImage(t *testing.T) {
	ctx := betaUserContext(t, nil)
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	for _, image := range []string{
		"",
		"not-a-data-url",
		"data:image/png;base64,%%%%",
		"data:image/png;base64,bm90IGFuIGltYWdl",
	} {
		_, err := domain.Generate(ctx, &model.GenerateBugRequest{Image: image})

		var errx errorx.Error
		require.ErrorAs(t, err, &errx)
		require.Equal(t, errorx.BadRequest, errx.Code)
	}
}

func Test_bugDomain_Generate_answersRepeatedImageFromHistory(t *testing.T) {
	ctx := betaUserContext(t, nil)
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	first, err := domain.Generate(ctx, &model.GenerateBugRequest{Image: samplePNG})
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := domain.Generate(ctx, &model.GenerateBugRequest{Image: samplePNG})
	require.NoError(t, err)
	require.True(t, second.Cached)
	require.Equal(t, first.Report.ID, second.Report.ID)

	// The cache hit consumes no quota and stores no duplicate.
	userID := xcontext.RequestUserID(ctx)
	used, err := repository.NewDailyUsageRepository().Count(ctx, userID, today())
	require.NoError(t, err)
	require.Equal(t, 1, used)

	reports, err := repository.NewBugReportRepository().GetHistory(ctx, userID, 0, 50)
	require.NoError(t, err)
	require.Len(t, reports, 1)
}

func today() string {
	return time.Now().UTC().Format(model.DefaultDateLayout)
}

func Test_bugDomain_Generate_enforcesDailyCap(t *testing.T) {
	ctx := betaUserContext(t, nil)
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	userID := xcontext.RequestUserID(ctx)
	for i := 0; i < xcontext.Configs(ctx).Usage.FreeDailyCap; i++ {
		require.NoError(t, repository.NewDailyUsageRepository().Increase(ctx, userID, today()))
	}

	_, err := domain.Generate(ctx, &model.GenerateBugRequest{Image: samplePNG})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.LimitReached, errx.Code)
}

func Test_bugDomain_Generate_proUserGetsHigherCap(t *testing.T) {
	ctx := betaUserContext(t, &entity.User{
		SubscriptionStatus: entity.SubscriptionActive,
	})
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	userID := xcontext.RequestUserID(ctx)
	for i := 0; i < xcontext.Configs(ctx).Usage.FreeDailyCap; i++ {
		require.NoError(t, repository.NewDailyUsageRepository().Increase(ctx, userID, today()))
	}

	resp, err := domain.Generate(ctx, &model.GenerateBugRequest{Image: samplePNG})
	require.NoError(t, err)
	require.Equal(t, xcontext.Configs(ctx).Usage.ProDailyCap-xcontext.Configs(ctx).Usage.FreeDailyCap-1, resp.Remaining)
}

func Test_bugDomain_GetHistory_pinnedFirst(t *testing.T) {
	ctx := betaUserContext(t, nil)
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	userID := xcontext.RequestUserID(ctx)
	repo := repository.NewBugReportRepository()
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, repo.Create(ctx, &entity.BugReport{
			SnowFlakeBase: entity.SnowFlakeBase{ID: i},
			UserID:        userID,
			Title:         "report",
		}))
	}
	require.NoError(t, repo.SetPinned(ctx, userID, 1, true))

	resp, err := domain.GetHistory(ctx, &model.GetHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Reports, 3)
	require.Equal(t, "1", resp.Reports[0].ID)
	require.Equal(t, "3", resp.Reports[1].ID)
	require.Equal(t, "2", resp.Reports[2].ID)
}

func Test_bugDomain_Pin(t *testing.T) {
	ctx := betaUserContext(t, nil)
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	userID := xcontext.RequestUserID(ctx)
	repo := repository.NewBugReportRepository()
	require.NoError(t, repo.Create(ctx, &entity.BugReport{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 42},
		UserID:        userID,
		Title:         "report",
	}))

	_, err := domain.Pin(ctx, &model.PinBugReportRequest{ID: "42", Pinned: true})
	require.NoError(t, err)

	report, err := repo.GetByID(ctx, userID, 42)
	require.NoError(t, err)
	require.True(t, report.IsPinned)

	_, err = domain.Pin(ctx, &model.PinBugReportRequest{ID: "99", Pinned: true})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_bugDomain_Delete_scopedToOwner(t *testing.T) {
	ctx := betaUserContext(t, nil)
	domain := newTestBugDomain(&aiprovider.MockEndpoint{}, nil)

	repo := repository.NewBugReportRepository()
	require.NoError(t, repo.Create(ctx, &entity.BugReport{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 42},
		UserID:        "someone-else",
		Title:         "report",
	}))

	_, err := domain.Delete(ctx, &model.DeleteBugReportRequest{
		ID: strconv.FormatInt(42, 10),
	})
	require.NoError(t, err)

	// The foreign report is untouched.
	_, err = repo.GetByID(ctx, "someone-else", 42)
	require.NoError(t, err)
}
