package repository

import (
	"context"
	"errors"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyUsageRepository interface {
	Count(ctx context.Context, userID, date string) (int, error)
	Increase(ctx context.Context, userID, date string) error
}

type dailyUsageRepository struct{}

func NewDailyUsageRepository() DailyUsageRepository {
	return &dailyUsageRepository{}
}

func (r *dailyUsageRepository) Count(ctx context.Context, userID, date string) (int, error) {
	var record entity.DailyUsage
	err := xcontext.DB(ctx).Take(&record, "user_id=? AND date=?", userID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, err
	}

	return record.Count, nil
}

// Increase bumps today's counter in one statement, so two concurrent
// generations never lose an increment.
func (r *dailyUsageRepository) Increase(ctx context.Context, userID, date string) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(&entity.DailyUsage{
		UserID: userID,
		Date:   date,
		Count:  1,
	}).Error
}
