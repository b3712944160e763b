package repository

import (
	"context"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByServiceUserID(ctx context.Context, service, serviceUserID string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, data *entity.User) error
	SetBeta(ctx context.Context, id string, isBeta bool) error
	SetSubscriptionStatus(ctx context.Context, id, status string) error
	GetAll(ctx context.Context) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByServiceUserID(
	ctx context.Context, service, serviceUserID string,
) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("oauth2.service=? AND oauth2.service_user_id=?", service, serviceUserID).
		Joins("join oauth2 on users.id=oauth2.user_id").
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) UpdateByID(ctx context.Context, id string, data *entity.User) error {
	updateMap := map[string]any{}
	if data.Name != "" {
		updateMap["name"] = data.Name
	}

	if data.Role != "" {
		updateMap["role"] = data.Role
	}

	if data.SubscriptionStatus != "" {
		updateMap["subscription_status"] = data.SubscriptionStatus
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *userRepository) SetBeta(ctx context.Context, id string, isBeta bool) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).
		Update("is_beta", isBeta).Error
}

func (r *userRepository) SetSubscriptionStatus(ctx context.Context, id, status string) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).
		Update("subscription_status", status).Error
}

func (r *userRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	var records []entity.User
	if err := xcontext.DB(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
