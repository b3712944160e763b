package migration

import (
	"context"
	"errors"
	"time"

	"github.com/bugsnap/backend/internal/entity"
	"github.com/bugsnap/backend/pkg/xcontext"

	"gorm.io/gorm"
)

// Migrators maps a version name to its migrator, for running a single
// migration by hand.
var Migrators = map[string]func(context.Context) error{
	"auto": AutoMigrate,
	"0000": migrate0000,
	"0001": migrate0001,
}

var orderedVersions = []struct {
	version  string
	migrator func(context.Context) error
}{
	{"0000", migrate0000},
	{"0001", migrate0001},
}

// Migrate applies every migration that has not been recorded yet, in order.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	for _, m := range orderedVersions {
		var applied entity.Migration
		err := xcontext.DB(ctx).Take(&applied, "version=?", m.version).Error
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		xcontext.Logger(ctx).Infof("Applying migration %s", m.version)
		if err := m.migrator(ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: m.version, AppliedAt: time.Now()}
		if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}
