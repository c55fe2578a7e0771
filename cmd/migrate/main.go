package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/omran-mahr/Aspiro-AI/internal/config"
	"github.com/omran-mahr/Aspiro-AI/internal/database"
)

// migrations is the subset of database.Migrator the CLI drives
type migrations interface {
	Up() error
	Down(steps int) error
	Version() (uint, bool, error)
	Force(version int) error
}

type options struct {
	action  string
	steps   int
	version int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.action, "action", "up", "Migration action: up, down, version, force")
	flag.IntVar(&opts.steps, "steps", 1, "Number of migrations to roll back (down)")
	flag.IntVar(&opts.version, "version", -1, "Version to record without running migrations (force)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasDatabase() {
		return errors.New("DATABASE_URL is required")
	}

	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)

	dbName, err := database.DatabaseName(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	// golang-migrate needs database/sql
	db, err := database.NewSQLDB(database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, dbName, logger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	logger.Info("connected to database", slog.String("database", dbName), slog.String("action", opts.action))

	return execute(migrator, opts, logger)
}

func execute(m migrations, opts options, logger *slog.Logger) error {
	switch opts.action {
	case "up":
		if err := m.Up(); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Info("migrations applied")

	case "down":
		if opts.steps < 1 {
			return fmt.Errorf("steps must be positive, got %d", opts.steps)
		}
		if err := m.Down(opts.steps); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Info("migrations rolled back", slog.Int("steps", opts.steps))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Info("current migration version",
			slog.Uint64("version", uint64(version)),
			slog.Bool("dirty", dirty),
		)

	case "force":
		if opts.version < 0 {
			return errors.New("-version is required for force")
		}
		logger.Warn("forcing migration version", slog.Int("version", opts.version))
		if err := m.Force(opts.version); err != nil {
			return fmt.Errorf("force migration failed: %w", err)
		}

	default:
		return fmt.Errorf("invalid action %q (use: up, down, version, force)", opts.action)
	}

	return nil
}
