package migration

import (
	"context"
	"embed"
	"errors"

	"github.com/bridgeart/backend/internal/entity"
	"github.com/bridgeart/backend/pkg/xcontext"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

// Source returns the embedded mysql migrations, so the binary can migrate
// without shipping the sql files.
func Source() (source.Driver, error) {
	return iofs.New(mysqlFS, "mysql")
}

// Migrate applies every pending versioned migration to the database in ctx.
func Migrate(ctx context.Context) error {
	db, err := xcontext.DB(ctx).DB()
	if err != nil {
		return err
	}

	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return err
	}

	src, err := Source()
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, xcontext.Configs(ctx).Database.Database, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Database is at version %d (dirty=%t)", version, dirty)
	return nil
}

// AutoMigrate lets gorm create or alter the tables from the entities. It is
// meant for development databases only.
func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
