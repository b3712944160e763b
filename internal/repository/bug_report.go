package repository

import (
	"context"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"
)

type BugReportRepository interface {
	Create(ctx context.Context, data *entity.BugReport) error
	GetByID(ctx context.Context, userID string, id int64) (*entity.BugReport, error)
	GetByImageHash(ctx context.Context, userID, imageHash string) (*entity.BugReport, error)
	GetHistory(ctx context.Context, userID string, offset, limit int) ([]entity.BugReport, error)
	SetPinned(ctx context.Context, userID string, id int64, pinned bool) error
	SetIssueKey(ctx context.Context, userID string, id int64, issueKey string) error
	Delete(ctx context.Context, userID string, id int64) error
	CountByUser(ctx context.Context) ([]UserReportCount, error)
}

type UserReportCount struct {
	UserID string
	Total  int64
}

type bugReportRepository struct{}

func NewBugReportRepository() BugReportRepository {
	return &bugReportRepository{}
}

func (r *bugReportRepository) Create(ctx context.Context, data *entity.BugReport) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bugReportRepository) GetByID(ctx context.Context, userID string, id int64) (*entity.BugReport, error) {
	var record entity.BugReport
	err := xcontext.DB(ctx).Take(&record, "id=? AND user_id=?", id, userID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *bugReportRepository) GetByImageHash(ctx context.Context, userID, imageHash string) (*entity.BugReport, error) {
	var record entity.BugReport
	err := xcontext.DB(ctx).
		Where("user_id=? AND image_hash=?", userID, imageHash).
		Order("id DESC").
		Take(&record).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

// GetHistory returns the newest reports first, pinned ones before the rest.
func (r *bugReportRepository) GetHistory(ctx context.Context, userID string, offset, limit int) ([]entity.BugReport, error) {
	var records []entity.BugReport
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("is_pinned DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *bugReportRepository) SetPinned(ctx context.Context, userID string, id int64, pinned bool) error {
	return xcontext.DB(ctx).
		Model(&entity.BugReport{}).
		Where("id=? AND user_id=?", id, userID).
		Update("is_pinned", pinned).Error
}

func (r *bugReportRepository) SetIssueKey(ctx context.Context, userID string, id int64, issueKey string) error {
	return xcontext.DB(ctx).
		Model(&entity.BugReport{}).
		Where("id=? AND user_id=?", id, userID).
		Update("issue_key", issueKey).Error
}

func (r *bugReportRepository) Delete(ctx context.Context, userID string, id int64) error {
	return xcontext.DB(ctx).
		Where("id=? AND user_id=?", id, userID).
		Delete(&entity.BugReport{}).Error
}

func (r *bugReportRepository) CountByUser(ctx context.Context) ([]UserReportCount, error) {
	var records []UserReportCount
	err := xcontext.DB(ctx).
		Model(&entity.BugReport{}).
		Select("user_id, COUNT(*) AS total").
		Group("user_id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
