package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"

	"github.com/m04kA/SMC-SchedulingService/internal/app"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/service/crmsync"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func main() {
	cliApp := &cli.App{
		Name:  "synctl",
		Usage: "Operate the HubSpot sync outbox",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.toml", EnvVars: []string{"CONFIG_PATH"}},
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "drain",
				Usage: "process due sync jobs until none is left and exit",
				Action: func(c *cli.Context) error {
					return withWorker(c, func(w *crmsync.Worker, log *logger.Logger) error {
						n, err := w.Drain(c.Context)
						log.Info("synctl: drained %d jobs", n)
						return err
					})
				},
			},
			{
				Name:  "requeue-failed",
				Usage: "give FAILED jobs a fresh set of attempts and mark their entities PENDING",
				Action: func(c *cli.Context) error {
					return withWorker(c, func(w *crmsync.Worker, log *logger.Logger) error {
						n, err := w.RequeueFailed(c.Context)
						log.Info("synctl: requeued %d jobs", n)
						return err
					})
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "synctl: %v\n", err)
		os.Exit(1)
	}
}

func withWorker(c *cli.Context, fn func(w *crmsync.Worker, log *logger.Logger) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(os.Stderr, c.String("log-level"))

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}

	worker := app.NewSyncWorker(cfg, dbmetrics.Wrap(db, nil), nil, log)
	return fn(worker, log)
}
