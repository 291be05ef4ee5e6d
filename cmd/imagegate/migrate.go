package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/BaSui01/imagegate/internal/migration"
)

// migrateCommand 描述一个 migrate 子命令；positional 为需要的位置参数个数
type migrateCommand struct {
	positional int
	run        func(ctx context.Context, cli *migration.CLI, args []string) error
}

var migrateCommands = map[string]migrateCommand{
	"up": {run: func(ctx context.Context, cli *migration.CLI, _ []string) error {
		return cli.RunUp(ctx)
	}},
	"down": {run: func(ctx context.Context, cli *migration.CLI, _ []string) error {
		return cli.RunDown(ctx)
	}},
	"status": {run: func(ctx context.Context, cli *migration.CLI, _ []string) error {
		return cli.RunStatus(ctx)
	}},
	"version": {run: func(ctx context.Context, cli *migration.CLI, _ []string) error {
		return cli.RunVersion(ctx)
	}},
	"goto": {positional: 1, run: func(ctx context.Context, cli *migration.CLI, args []string) error {
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return cli.RunGoto(ctx, uint(v))
	}},
	"force": {positional: 1, run: func(ctx context.Context, cli *migration.CLI, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return cli.RunForce(ctx, v)
	}},
}

// runMigrate 处理 migrate 命令及其子命令
func runMigrate(args []string, out io.Writer) error {
	if len(args) < 1 {
		printMigrateUsage(out)
		return errors.New("migrate subcommand is required")
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		printMigrateUsage(out)
		return nil
	}
	cmd, ok := migrateCommands[name]
	if !ok {
		printMigrateUsage(out)
		return fmt.Errorf("unknown migrate subcommand: %s", name)
	}

	fs := flag.NewFlagSet("migrate "+name, flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to config file")
	dbType := fs.String("db-type", "", "Database type (postgres, mysql, sqlite)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() < cmd.positional {
		return fmt.Errorf("migrate %s requires a version argument", name)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dbType != "" {
		cfg.Database.Driver = *dbType
	}

	logger := initLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	migrator, err := migration.NewMigratorFromDatabaseConfig(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			logger.Warn("failed to close migrator", zap.Error(err))
		}
	}()

	cli := migration.NewCLI(migrator)
	cli.SetOutput(out)
	return cmd.run(context.Background(), cli, fs.Args())
}

func printMigrateUsage(out io.Writer) {
	fmt.Fprintln(out, `Database Migration Commands

Usage:
  imagegate migrate <subcommand> [options]

Subcommands:
  up        Apply all pending migrations
  down      Rollback the last migration
  status    Show migration status
  version   Show current migration version
  goto <v>  Migrate to a specific version
  force <v> Force set migration version (use with caution)
  help      Show this help message

Options:
  --config <path>     Path to configuration file (YAML)
  --db-type <type>    Database type: postgres, mysql, sqlite (default: from config)`)
}
