package repository

import (
	"context"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"

	"gorm.io/gorm/clause"
)

type IntegrationRepository interface {
	Get(ctx context.Context, userID, provider string) (*entity.Integration, error)
	Upsert(ctx context.Context, data *entity.Integration) error
	Delete(ctx context.Context, userID, provider string) error
}

type integrationRepository struct{}

func NewIntegrationRepository() IntegrationRepository {
	return &integrationRepository{}
}

func (r *integrationRepository) Get(ctx context.Context, userID, provider string) (*entity.Integration, error) {
	var record entity.Integration
	err := xcontext.DB(ctx).Take(&record, "user_id=? AND provider=?", userID, provider).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// Upsert replaces the whole credential row in a single statement, so a
// reader never observes an access token from one grant next to the refresh
// token of another.
func (r *integrationRepository) Upsert(ctx context.Context, data *entity.Integration) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"site_id", "site_url", "access_token", "refresh_token", "updated_at",
		}),
	}).Create(data).Error
}

// Delete removes the credential and reports success even when no row
// existed.
func (r *integrationRepository) Delete(ctx context.Context, userID, provider string) error {
	return xcontext.DB(ctx).
		Where("user_id=? AND provider=?", userID, provider).
		Delete(&entity.Integration{}).Error
}
