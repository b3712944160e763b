package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/internal/model"
	"github.com/bugsnap/backend/internal/repository"
	"github.com/bugsnap/backend/pkg/authenticator"
	"github.com/bugsnap/backend/pkg/errorx"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthDomain interface {
	OAuth2Verify(ctx context.Context, req *model.OAuth2VerifyRequest) (*model.OAuth2VerifyResponse, error)
}

type authDomain struct {
	userRepo       repository.UserRepository
	oauth2Repo     repository.OAuth2Repository
	oauth2Services []authenticator.IOAuth2Service
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	oauth2Repo repository.OAuth2Repository,
	oauth2Services []authenticator.IOAuth2Service,
) AuthDomain {
	return &authDomain{
		userRepo:       userRepo,
		oauth2Repo:     oauth2Repo,
		oauth2Services: oauth2Services,
	}
}

func (d *authDomain) OAuth2Verify(
	ctx context.Context, req *model.OAuth2VerifyRequest,
) (*model.OAuth2VerifyResponse, error) {
	service, ok := d.getOAuth2Service(req.Type)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Unsupported oauth2 type %s", req.Type)
	}

	serviceUser, err := service.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify the id token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid token")
	}

	serviceUserID := fmt.Sprintf("%s_%s", service.Service(), serviceUser.ID)
	user, err := d.userRepo.GetByServiceUserID(ctx, service.Service(), serviceUserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get the user: %v", err)
			return nil, errorx.Unknown
		}

		user, err = d.registerUser(ctx, service.Service(), serviceUserID, serviceUser)
		if err != nil {
			return nil, err
		}
	}

	token, err := xcontext.TokenEngine(ctx).Generate(
		xcontext.Configs(ctx).Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate the access token: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.OAuth2VerifyResponse{
		User:        model.ConvertUser(user, false),
		AccessToken: token,
	}
	return &resp, nil
}

func (d *authDomain) getOAuth2Service(service string) (authenticator.IOAuth2Service, bool) {
	for _, s := range d.oauth2Services {
		if s.Service() == service {
			return s, true
		}
	}

	return nil, false
}

func (d *authDomain) registerUser(
	ctx context.Context, service, serviceUserID string, serviceUser authenticator.OAuth2User,
) (*entity.User, error) {
	user := &entity.User{
		Base:  entity.Base{ID: uuid.NewString()},
		Email: serviceUser.Email,
		Name:  serviceUser.Username,
		Role:  entity.UserRole,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create the user: %v", err)
		return nil, errorx.Unknown
	}

	err := d.oauth2Repo.Create(ctx, &entity.OAuth2{
		UserID:        user.ID,
		Service:       service,
		ServiceUserID: serviceUserID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot link the user with %s: %v", service, err)
		return nil, errorx.Unknown
	}

	return user, nil
}
