package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	getContractorAppointmentsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_contractor_appointments"
	getScheduleConfigHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_schedule_config"
	getAnalyticsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_scheduling_analytics"
	getServiceHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_service"
	updateStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_appointment_status"
	updateScheduleConfigHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_schedule_config"
	upsertServiceHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/upsert_service"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/app"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/events"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/syncjob"
	appointmentsService "github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-SchedulingService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_appointment"
	getAvailabilityUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	getAnalyticsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_scheduling_analytics"
	updateStatusUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_appointment_status"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

type eventPublisher interface {
	PublishStatusChanged(ctx context.Context, a *domain.Appointment, at time.Time)
	Close() error
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (nil коллектор = метрики выключены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	syncJobRepository := syncjob.NewRepository(wrappedDB)

	// Блокировка подрядчика
	var baseLocker lock.Locker
	switch cfg.Locks.Backend {
	case config.LockBackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		baseLocker = lock.NewRedisLocker(redisClient, cfg.Locks.TTL(), cfg.Locks.RetryInterval(), log)
		log.Info("Contractor locks: redis (addr=%s)", cfg.Redis.Addr)
	default:
		baseLocker = lock.NewLocalLocker()
		log.Info("Contractor locks: in-process")
	}
	locker := lock.WithTimeout(baseLocker, cfg.Locks.WaitTimeout())

	// События смены статуса
	var publisher eventPublisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			time.Duration(cfg.Kafka.TimeoutMs)*time.Millisecond, log)
		log.Info("Status events enabled (topic=%s)", cfg.Kafka.Topic)
	}
	defer publisher.Close()

	// Сервисы
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, syncJobRepository, txMgr, cfg.Sync.MaxAttempts, log)

	// Use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(appointmentRepository, scheduleRepository, log)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		syncJobRepository,
		locker,
		publisher,
		metricsCollector,
		txMgr,
		cfg.Sync.MaxAttempts,
		log,
	)
	updateStatusUseCase := updateStatusUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		syncJobRepository,
		publisher,
		metricsCollector,
		txMgr,
		cfg.Sync.MaxAttempts,
		log,
	)
	getAnalyticsUseCase := getAnalyticsUC.NewUseCase(appointmentRepository, scheduleRepository, log)

	// Воркер синхронизации с HubSpot
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workerWG sync.WaitGroup

	if cfg.Hubspot.Enabled {
		worker := app.NewSyncWorker(cfg, wrappedDB, metricsCollector, log)
		log.Info("HubSpot sync worker started (url=%s)", cfg.Hubspot.BaseURL)
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			worker.Start(workerCtx)
		}()
	} else {
		log.Warn("HubSpot sync disabled, sync jobs stay queued")
	}

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateStatus := updateStatusHandler.NewHandler(updateStatusUseCase, log)
	getContractorAppointments := getContractorAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAnalytics := getAnalyticsHandler.NewHandler(getAnalyticsUseCase, log)
	getScheduleConfig := getScheduleConfigHandler.NewHandler(scheduleSvc, log)
	updateScheduleConfig := updateScheduleConfigHandler.NewHandler(scheduleSvc, log)
	getService := getServiceHandler.NewHandler(scheduleSvc, log)
	upsertService := upsertServiceHandler.NewHandler(scheduleSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Доступность и записи ---
	api.HandleFunc("/contractors/{contractorId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/contractors/{contractorId}/appointments", getContractorAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/contractors/{contractorId}/analytics", getAnalytics.Handle).Methods(http.MethodGet)

	// --- Настройки подрядчика ---
	api.HandleFunc("/contractors/{contractorId}/schedule-config", getScheduleConfig.Handle).Methods(http.MethodGet)
	api.HandleFunc("/contractors/{contractorId}/schedule-config", updateScheduleConfig.Handle).Methods(http.MethodPut)
	api.HandleFunc("/contractors/{contractorId}/services/{serviceId}", getService.Handle).Methods(http.MethodGet)
	api.HandleFunc("/contractors/{contractorId}/services/{serviceId}", upsertService.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopWorker()
	workerWG.Wait()

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
