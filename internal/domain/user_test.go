package domain

import (
	"testing"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/model"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/testutil"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestUserDomain() UserDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewBugReportRepository(),
		repository.NewDailyUsageRepository(),
	)
}

func Test_userDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, &entity.User{
		SubscriptionStatus: entity.SubscriptionActive,
	})
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	resp, err := newTestUserDomain().GetMe(ctx, &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, user.ID, resp.ID)
	require.Equal(t, user.Email, resp.Email)
	require.True(t, resp.IsPro)
}

func Test_userDomain_GetUsage(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	require.NoError(t, repository.NewDailyUsageRepository().Increase(ctx, user.ID, today()))

	resp, err := newTestUserDomain().GetUsage(ctx, &model.GetUsageRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Used)
	require.Equal(t, xcontext.Configs(ctx).Usage.FreeDailyCap, resp.Limit)
	require.Equal(t, resp.Limit-1, resp.Remaining)
}

func Test_userDomain_GetUsers(t *testing.T) {
	ctx := testutil.MockContext()
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.AdminRole})
	require.NoError(t, err)
	reporter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, admin.ID)

	require.NoError(t, repository.NewBugReportRepository().Create(ctx, &entity.BugReport{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1},
		UserID:        reporter.ID,
		Title:         "report",
	}))

	resp, err := newTestUserDomain().GetUsers(ctx, &model.GetUsersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 2)

	counts := map[string]int64{}
	for _, u := range resp.Users {
		counts[u.ID] = u.ReportCount
	}
	require.Equal(t, int64(1), counts[reporter.ID])
	require.Equal(t, int64(0), counts[admin.ID])
}

func Test_userDomain_GetUsers_requiresAdmin(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	_, err = newTestUserDomain().GetUsers(ctx, &model.GetUsersRequest{})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_userDomain_SetBetaAccess(t *testing.T) {
	ctx := testutil.MockContext()
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.AdminRole})
	require.NoError(t, err)
	target, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, admin.ID)

	_, err = newTestUserDomain().SetBetaAccess(ctx, &model.SetBetaAccessRequest{
		UserID: target.ID,
		IsBeta: true,
	})
	require.NoError(t, err)

	updated, err := repository.NewUserRepository().GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.True(t, updated.IsBeta)
}

func Test_userDomain_SetBetaAccess_requiresAdmin(t *testing.T) {
	ctx := testutil.MockContext()
	requester, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	target, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, requester.ID)

	_, err = newTestUserDomain().SetBetaAccess(ctx, &model.SetBetaAccessRequest{
		UserID: target.ID,
		IsBeta: true,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func Test_userDomain_SetProAccess(t *testing.T) {
	ctx := testutil.MockContext()
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.AdminRole})
	require.NoError(t, err)
	target, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, admin.ID)

	_, err = newTestUserDomain().SetProAccess(ctx, &model.SetProAccessRequest{
		UserID: target.ID,
		IsPro:  true,
	})
	require.NoError(t, err)

	updated, err := repository.NewUserRepository().GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.True(t, updated.IsPro())

	_, err = newTestUserDomain().SetProAccess(ctx, &model.SetProAccessRequest{
		UserID: target.ID,
		IsPro:  false,
	})
	require.NoError(t, err)

	updated, err = repository.NewUserRepository().GetByID(ctx, target.ID)
	require.NoError(t, err)
	require.False(t, updated.IsPro())
}

func Test_userDomain_SetBetaAccess_unknownTarget(t *testing.T) {
	ctx := testutil.MockContext()
	admin, err := testutil.SampleUser(ctx, &entity.User{Role: entity.AdminRole})
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, admin.ID)

	_, err = newTestUserDomain().SetBetaAccess(ctx, &model.SetBetaAccessRequest{
		UserID: "missing-user",
		IsBeta: true,
	})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}
