package migration

import (
	"context"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"
)

// migrate0000 creates the initial schema.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.OAuth2{},
		&entity.Integration{},
		&entity.BugReport{},
		&entity.DailyUsage{},
	)
}
