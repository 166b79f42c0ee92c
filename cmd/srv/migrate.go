package main

import (
	"github.com/bridgeart/backend/migration"
	"github.com/bridgeart/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	dbCfg := xcontext.Configs(s.ctx).Database
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase(dbCfg.MigrationConnectionString()))

	if cctx.Bool("auto") {
		return migration.AutoMigrate(s.ctx)
	}

	return migration.Migrate(s.ctx)
}
