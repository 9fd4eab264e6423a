package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/migrations"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "Apply the SMC-SchedulingService database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.toml", EnvVars: []string{"CONFIG_PATH"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrate) error {
						if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
							return fmt.Errorf("migrate up: %w", err)
						}
						fmt.Println("migrations complete")
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the last migration",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrate) error {
						if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
							return fmt.Errorf("migrate down: %w", err)
						}
						fmt.Println("rolled back one migration")
						return nil
					})
				},
			},
			{
				Name:      "force",
				Usage:     "set the schema version without running migrations",
				ArgsUsage: "<version>",
				Action: func(c *cli.Context) error {
					version := c.Args().First()
					var v int
					if _, err := fmt.Sscanf(version, "%d", &v); err != nil {
						return fmt.Errorf("invalid version %q: %w", version, err)
					}
					return withMigrator(c, func(m *migrate.Migrate) error {
						if err := m.Force(v); err != nil {
							return fmt.Errorf("force version: %w", err)
						}
						fmt.Printf("forced version to %d\n", v)
						return nil
					})
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrate.Migrate) error {
						v, dirty, err := m.Version()
						if errors.Is(err, migrate.ErrNilVersion) {
							fmt.Println("no migrations applied")
							return nil
						}
						if err != nil {
							return fmt.Errorf("version: %w", err)
						}
						fmt.Printf("version=%d dirty=%t\n", v, dirty)
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func withMigrator(c *cli.Context, fn func(m *migrate.Migrate) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("db driver: %w", err)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("source driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	return fn(m)
}
