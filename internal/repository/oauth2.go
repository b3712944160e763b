package repository

import (
	"context"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"
)

type OAuth2Repository interface {
	Create(ctx context.Context, data *entity.OAuth2) error
	GetByUserID(ctx context.Context, service, userID string) (*entity.OAuth2, error)
}

type oauth2Repository struct{}

func NewOAuth2Repository() OAuth2Repository {
	return &oauth2Repository{}
}

func (r *oauth2Repository) Create(ctx context.Context, data *entity.OAuth2) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *oauth2Repository) GetByUserID(ctx context.Context, service, userID string) (*entity.OAuth2, error) {
	var record entity.OAuth2
	err := xcontext.DB(ctx).Take(&record, "service=? AND user_id=?", service, userID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}
