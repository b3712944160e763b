package main

import (
	"context"
	"fmt"

	"github.com/bugsnap/backend/migration"
	"github.com/bugsnap/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)

	if version := cctx.String("version"); version != "" {
		migrator, ok := migration.Migrators[version]
		if !ok {
			return fmt.Errorf("not found version %s", version)
		}

		return migrator(ctx)
	}

	return migration.Migrate(ctx)
}
