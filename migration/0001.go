package migration

import (
	"context"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"
)

// migrate0001 backfills the pin and issue key columns added to reports.
func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	for _, column := range []string{"is_pinned", "issue_key"} {
		if migrator.HasColumn(&entity.BugReport{}, column) {
			continue
		}

		if err := migrator.AddColumn(&entity.BugReport{}, column); err != nil {
			return err
		}
	}

	return nil
}
