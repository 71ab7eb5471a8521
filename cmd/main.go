package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	deleteAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointments"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_settings"
	updateAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment"
	updateSettingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	establishmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/establishment"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/access"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/pipeline"
	"github.com/m04kA/SMC-AppointmentService/internal/service/rules"
	settingsService "github.com/m04kA/SMC-AppointmentService/internal/service/settings"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	updateAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-AppointmentService...")

	// Инициализируем метрики (если включены)
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка над пулом: с метриками или прозрачный прокси
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	establishmentRepository := establishmentRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	accessValidator := access.NewValidator(establishmentRepository, log)
	businessRules := rules.NewRules(appointmentRepository, log)
	rulePipeline := pipeline.New(log,
		pipeline.NewStaffAllowedServicesRule(accessValidator),
	)
	log.Info("Validation pipeline configured: rules=%v", rulePipeline.Names())

	pagination := appointmentsService.Pagination{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}
	appointmentSvc := appointmentsService.NewService(appointmentRepository, accessValidator, pagination, log)
	settingsSvc := settingsService.NewService(settingsRepository, accessValidator, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		accessValidator,
		businessRules,
		rulePipeline,
		txMgr,
		log,
	)

	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		appointmentRepository,
		accessValidator,
		businessRules,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		accessValidator,
		rulePipeline,
		settingsSvc,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, metricsCollector, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, metricsCollector, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, metricsCollector, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	getAppointments := getAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Настройки расписания заведения
	api.HandleFunc("/establishments/{establishmentId}/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (X-User-ID или Bearer-токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.Auth.JWTSecret))

	// Ограничение частоты запросов (если Redis включён)
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		limiter := middleware.NewRateLimiter(
			middleware.NewRedisCounter(rdb),
			cfg.Redis.RateLimit,
			time.Duration(cfg.Redis.RateLimitWindow)*time.Second,
			"rl:appointments",
			cfg.Redis.FailOpen,
			log,
		)
		protected.Use(limiter.Middleware())
		log.Info("Rate limiting enabled (limit=%d per %ds, fail_open=%t)",
			cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow, cfg.Redis.FailOpen)
	}

	// --- Настройки ---
	protected.HandleFunc("/establishments/{establishmentId}/settings", updateSettings.Handle).Methods(http.MethodPut)

	// --- Свободные слоты ---
	protected.HandleFunc("/establishments/{establishmentId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Записи ---
	protected.HandleFunc("/establishments/{establishmentId}/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/establishments/{establishmentId}/appointments", getAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/establishments/{establishmentId}/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/establishments/{establishmentId}/appointments/{id}", updateAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/establishments/{establishmentId}/appointments/{id}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
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

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
