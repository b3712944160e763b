package middleware

import (
	"context"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/router"
	"github.com/bugsnap/backend/pkg/xcontext"
)

type OnlyAdmin struct {
	userRepo repository.UserRepository
}

func NewOnlyAdmin(userRepo repository.UserRepository) *OnlyAdmin {
	return &OnlyAdmin{userRepo: userRepo}
}

func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		user, err := a.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
		if err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		if user.Role != entity.AdminRole {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil, nil
	}
}
