package persistence

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// NewMigrator builds a migrator over the embedded SQL files for the given DSN.
func NewMigrator(dsn string, logger *zap.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	mg.logVersion("migrations applied")
	return nil
}

// Down reverts all migrations.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("revert migrations: %w", err)
	}
	mg.logger.Info("migrations reverted")
	return nil
}

// Drop removes everything in the database.
func (mg *Migrator) Drop() error {
	return mg.m.Drop()
}

// Version reports the applied version. ok is false when nothing has been applied.
func (mg *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return version, dirty, true, nil
}

// Close releases source and database handles.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, ok, err := mg.Version()
	if err != nil {
		mg.logger.Warn(msg, zap.Error(err))
		return
	}
	if !ok {
		mg.logger.Info(msg, zap.String("version", "none"))
		return
	}
	mg.logger.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
}

// RunMigrations applies pending migrations and closes the migrator.
func RunMigrations(dsn string, logger *zap.Logger) error {
	mg, err := NewMigrator(dsn, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			logger.Warn("close migrator", zap.Error(err))
		}
	}()
	return mg.Up()
}
