package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/model"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUsage(ctx context.Context, req *model.GetUsageRequest) (*model.GetUsageResponse, error)
	GetUsers(ctx context.Context, req *model.GetUsersRequest) (*model.GetUsersResponse, error)
	SetBetaAccess(ctx context.Context, req *model.SetBetaAccessRequest) (*model.SetBetaAccessResponse, error)
	SetProAccess(ctx context.Context, req *model.SetProAccessRequest) (*model.SetProAccessResponse, error)
}

type userDomain struct {
	userRepo       repository.UserRepository
	bugReportRepo  repository.BugReportRepository
	dailyUsageRepo repository.DailyUsageRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	bugReportRepo repository.BugReportRepository,
	dailyUsageRepo repository.DailyUsageRepository,
) UserDomain {
	return &userDomain{
		userRepo:       userRepo,
		bugReportRepo:  bugReportRepo,
		dailyUsageRepo: dailyUsageRepo,
	}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user, true))
	return &resp, nil
}

func (d *userDomain) GetUsage(
	ctx context.Context, req *model.GetUsageRequest,
) (*model.GetUsageResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return nil, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Usage
	dailyCap := cfg.FreeDailyCap
	if user.IsPro() {
		dailyCap = cfg.ProDailyCap
	}

	today := time.Now().UTC().Format(model.DefaultDateLayout)
	used, err := d.dailyUsageRepo.Count(ctx, userID, today)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the daily usage: %v", err)
		return nil, errorx.Unknown
	}

	remaining := dailyCap - used
	if remaining < 0 {
		remaining = 0
	}

	return &model.GetUsageResponse{
		Used:      used,
		Limit:     dailyCap,
		Remaining: remaining,
	}, nil
}

func (d *userDomain) GetUsers(
	ctx context.Context, req *model.GetUsersRequest,
) (*model.GetUsersResponse, error) {
	if err := d.requireAdmin(ctx); err != nil {
		return nil, err
	}

	users, err := d.userRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot list the users: %v", err)
		return nil, errorx.Unknown
	}

	counts, err := d.bugReportRepo.CountByUser(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count the reports: %v", err)
		return nil, errorx.Unknown
	}

	countByUser := map[string]int64{}
	for _, c := range counts {
		countByUser[c.UserID] = c.Total
	}

	resp := model.GetUsersResponse{Users: []model.AdminUser{}}
	for i := range users {
		resp.Users = append(resp.Users, model.AdminUser{
			User:        model.ConvertUser(&users[i], true),
			ReportCount: countByUser[users[i].ID],
		})
	}

	return &resp, nil
}

func (d *userDomain) SetBetaAccess(
	ctx context.Context, req *model.SetBetaAccessRequest,
) (*model.SetBetaAccessResponse, error) {
	if err := d.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := d.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	if err := d.userRepo.SetBeta(ctx, req.UserID, req.IsBeta); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetBetaAccessResponse{}, nil
}

func (d *userDomain) SetProAccess(
	ctx context.Context, req *model.SetProAccessRequest,
) (*model.SetProAccessResponse, error) {
	if err := d.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := d.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	status := ""
	if req.IsPro {
		status = entity.SubscriptionActive
	}

	if err := d.userRepo.SetSubscriptionStatus(ctx, req.UserID, status); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update the user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetProAccessResponse{}, nil
}

func (d *userDomain) requireAdmin(ctx context.Context) error {
	requester, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the requester: %v", err)
		return errorx.Unknown
	}

	if requester.Role != entity.AdminRole {
		return errorx.New(errorx.PermissionDenied, "Only an admin can do this")
	}

	return nil
}

func (d *userDomain) requireUser(ctx context.Context, userID string) error {
	if _, err := d.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found the user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
		return errorx.Unknown
	}

	return nil
}
