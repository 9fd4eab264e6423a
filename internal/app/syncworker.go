// Package app wires components shared by the server and the ops CLI.
package app

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/syncjob"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/syncstate"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/hubspot"
	"github.com/m04kA/SMC-SchedulingService/internal/service/crmsync"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// NewSyncWorker собирает воркер HubSpot синхронизации. metricsCollector может быть nil.
func NewSyncWorker(cfg *config.Config, db *dbmetrics.DB, metricsCollector *metrics.Metrics, log *logger.Logger) *crmsync.Worker {
	crmClient := hubspot.NewClient(
		cfg.Hubspot.BaseURL,
		cfg.Hubspot.AccessToken,
		time.Duration(cfg.Hubspot.Timeout)*time.Second,
		log,
	)

	reconciler := crmsync.NewReconciler(
		crmClient,
		appointmentRepo.NewRepository(db),
		scheduleRepo.NewRepository(db),
		crmsync.SyncStores{
			Appointments:     syncstate.ForAppointments(db),
			ScheduleConfigs:  syncstate.ForScheduleConfigs(db),
			ScheduleServices: syncstate.ForScheduleServices(db),
		},
		crmsync.ObjectTypes{
			Appointment:     cfg.Hubspot.AppointmentObject,
			ScheduleConfig:  cfg.Hubspot.ConfigObject,
			ScheduleService: cfg.Hubspot.ServiceObject,
		},
		log,
	)

	return crmsync.NewWorker(syncjob.NewRepository(db), reconciler, metricsCollector, WorkerConfig(cfg.Sync), log)
}

// WorkerConfig переводит настройки из TOML в параметры воркера
func WorkerConfig(c config.SyncConfig) crmsync.WorkerConfig {
	return crmsync.WorkerConfig{
		PollInterval:   time.Duration(c.PollIntervalMs) * time.Millisecond,
		BatchSize:      c.BatchSize,
		Lease:          time.Duration(c.LeaseSeconds) * time.Second,
		InitialBackoff: time.Duration(c.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(c.MaxBackoffMs) * time.Millisecond,
		Jitter:         c.Jitter,
	}
}
