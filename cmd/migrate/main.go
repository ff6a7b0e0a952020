package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/observability"
	"github.com/spec-kit/employee-service/internal/persistence"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [up|down|drop|version]")
		flag.PrintDefaults()
	}
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := runMigration(action, cfg.Postgres.DSN, logger); err != nil {
		logger.Fatal("migration failed", zap.String("action", action), zap.Error(err))
	}
	logger.Info("migration completed", zap.String("action", action))
}

func runMigration(action, dsn string, logger *zap.Logger) error {
	if dsn == "" {
		return errors.New("POSTGRES_DSN not provided")
	}

	mg, err := persistence.NewMigrator(dsn, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := mg.Close(); err != nil {
			logger.Warn("close migrator", zap.Error(err))
		}
	}()

	switch action {
	case "up":
		return mg.Up()
	case "down":
		return mg.Down()
	case "drop":
		return mg.Drop()
	case "version":
		version, dirty, ok, err := mg.Version()
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("no migration applied")
			return nil
		}
		logger.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
