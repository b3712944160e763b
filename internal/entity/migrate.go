package entity

import (
	"context"

	"github.com/bugsnap/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&OAuth2{},
		&Integration{},
		&BugReport{},
		&DailyUsage{},
		&Migration{},
	)
}
