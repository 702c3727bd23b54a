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
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/complete_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	deleteScheduleSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_schedule_slot"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getRewardPolicyHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_reward_policy"
	getRewardStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_reward_status"
	grantFreeServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/grant_free_service"
	listAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	listRewardAccountsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_reward_accounts"
	listScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_schedule"
	openRewardAccountHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/open_reward_account"
	setSlotAvailabilityHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/set_schedule_slot_availability"
	updateRewardPolicyHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_reward_policy"
	upsertScheduleSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/upsert_schedule_slot"
	useFreeServiceHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/use_free_service"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	rewardRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reward"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	rewardsService "github.com/m04kA/SMC-AppointmentService/internal/service/rewards"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
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
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone %s: %v", cfg.Business.Timezone, err)
	}

	// Инициализируем метрики (если включены); nil-коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	metricsCollector.RegisterDBStats(db, cfg.Database.DBName)
	wrappedDB := dbmetrics.Wrap(db, metricsCollector)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.Timeout)

	publisher := notifications.NewPublisher(notifications.Config{
		Brokers:        cfg.Kafka.Brokers,
		CreatedTopic:   cfg.Kafka.CreatedTopic,
		CancelledTopic: cfg.Kafka.CancelledTopic,
		WriteTimeout:   time.Duration(cfg.Kafka.WriteTimeout) * time.Second,
	}, log)
	defer publisher.Close()

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	rewardRepository := rewardRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	rewardSvc := rewardsService.NewService(rewardRepository, txMgr, metricsCollector, log)
	appointmentSvc := appointmentsService.NewService(appointmentRepository, publisher, txMgr, metricsCollector, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		catalog,
		rewardSvc,
		publisher,
		txMgr,
		metricsCollector,
		location,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentSvc, log)
	getRewardStatus := getRewardStatusHandler.NewHandler(rewardSvc, log)
	openRewardAccount := openRewardAccountHandler.NewHandler(rewardSvc, log)
	listRewardAccounts := listRewardAccountsHandler.NewHandler(rewardSvc, log)
	grantFreeService := grantFreeServiceHandler.NewHandler(rewardSvc, log)
	useFreeService := useFreeServiceHandler.NewHandler(rewardSvc, log)
	getRewardPolicy := getRewardPolicyHandler.NewHandler(rewardSvc, log)
	updateRewardPolicy := updateRewardPolicyHandler.NewHandler(rewardSvc, log)
	listSchedule := listScheduleHandler.NewHandler(scheduleSvc, log)
	upsertScheduleSlot := upsertScheduleSlotHandler.NewHandler(scheduleSvc, log)
	deleteScheduleSlot := deleteScheduleSlotHandler.NewHandler(scheduleSvc, log)
	setSlotAvailability := setSlotAvailabilityHandler.NewHandler(scheduleSvc, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, log)

	// Ограничение частоты для публичных маршрутов (Redis, общий счетчик для всех экземпляров)
	rateLimit := func(h http.Handler) http.Handler { return h }
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s: %v (fail_open=%t)", cfg.Redis.Addr, err, cfg.Redis.FailOpen)
		}
		cancelPing()

		trustedProxies, err := middleware.ParseTrustedProxies(cfg.Redis.TrustedProxies)
		if err != nil {
			log.Fatal("Failed to parse redis.trusted_proxies: %v", err)
		}

		limiter := middleware.NewRateLimiter(
			middleware.NewRedisCounter(redisClient),
			cfg.Redis.RateLimit,
			time.Duration(cfg.Redis.RateLimitWindow)*time.Second,
			"appointments:rl",
			cfg.Redis.FailOpen,
			log,
		).WithTrustedProxies(trustedProxies)
		rateLimit = limiter.Middleware
		log.Info("Rate limiting enabled: %d requests per %ds", cfg.Redis.RateLimit, cfg.Redis.RateLimitWindow)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// Слоты на дату
	api.Handle("/available-slots", rateLimit(http.HandlerFunc(getAvailableSlots.Handle))).Methods(http.MethodGet)

	// Создание записи (гость или клиент с токеном)
	api.Handle("/appointments", rateLimit(auth.Optional(http.HandlerFunc(createAppointment.Handle)))).Methods(http.MethodPost)

	// Правило начисления бонусов и расписание
	api.HandleFunc("/reward-policy", getRewardPolicy.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule", listSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// CUSTOMER ROUTES (Bearer токен)
	// ============================================================

	api.Handle("/appointments", auth.Required(http.HandlerFunc(listAppointments.Handle))).Methods(http.MethodGet)
	api.Handle("/appointments/{id}", auth.Required(http.HandlerFunc(getAppointment.Handle))).Methods(http.MethodGet)
	api.Handle("/appointments/{id}/cancel", auth.Required(http.HandlerFunc(cancelAppointment.Handle))).Methods(http.MethodPatch)

	api.Handle("/rewards/me", auth.Required(http.HandlerFunc(getRewardStatus.Handle))).Methods(http.MethodGet)
	api.Handle("/rewards/me", auth.Required(http.HandlerFunc(openRewardAccount.Handle))).Methods(http.MethodPost)
	api.Handle("/rewards/{customerId}", auth.Required(http.HandlerFunc(getRewardStatus.Handle))).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	api.Handle("/appointments/{id}/complete", auth.Admin(http.HandlerFunc(completeAppointment.Handle))).Methods(http.MethodPatch)

	api.Handle("/rewards", auth.Admin(http.HandlerFunc(listRewardAccounts.Handle))).Methods(http.MethodGet)
	api.Handle("/rewards/{customerId}/grant", auth.Admin(http.HandlerFunc(grantFreeService.Handle))).Methods(http.MethodPost)
	api.Handle("/rewards/{customerId}/use", auth.Admin(http.HandlerFunc(useFreeService.Handle))).Methods(http.MethodPost)
	api.Handle("/reward-policy", auth.Admin(http.HandlerFunc(updateRewardPolicy.Handle))).Methods(http.MethodPut)

	api.Handle("/schedule", auth.Admin(http.HandlerFunc(upsertScheduleSlot.Handle))).Methods(http.MethodPost)
	api.Handle("/schedule/{id}", auth.Admin(http.HandlerFunc(upsertScheduleSlot.Handle))).Methods(http.MethodPut)
	api.Handle("/schedule/{id}", auth.Admin(http.HandlerFunc(deleteScheduleSlot.Handle))).Methods(http.MethodDelete)
	api.Handle("/schedule/{id}/availability", auth.Admin(http.HandlerFunc(setSlotAvailability.Handle))).Methods(http.MethodPatch)

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

	// Ожидаем сигнал завершения
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

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
