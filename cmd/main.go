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
	"google.golang.org/api/option"

	cancelBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_booking"
	checkSlotHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/check_slot"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getOpenDatesHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_open_dates"
	listBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_bookings"
	rescheduleBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/googlecalendar"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/commitments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	checkSlotUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/check_slot"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	getOpenDatesUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_open_dates"
	"github.com/m04kA/SMC-AppointmentService/migrations"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", configPath)

	// Расписание разбирается один раз при старте; ошибка конфигурации фатальна
	scheduleCfg, err := schedule.NewResolver(cfg.Schedule, log).Resolve()
	if err != nil {
		log.Fatal("Invalid schedule configuration: %v", err)
	}
	log.Info("Schedule resolved: timezone=%s, buffer=%dm, interval=%dm, window=%dd",
		scheduleCfg.Location, scheduleCfg.BufferMinutes, scheduleCfg.SlotIntervalMinutes, scheduleCfg.BookingWindowDays)

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

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// Проверяем соединение
	if err := db.PingContext(startupCtx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(startupCtx, db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Оборачиваем БД: метрики запросов пишутся, только если коллектор есть
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil, cfg.Database.DBName)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis: блокировка дат при записи и rate limit
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(startupCtx).Err(); err != nil {
		log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
	}
	log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)

	// Источники занятости
	bookingRepository := bookingRepo.NewRepository(wrappedDB)

	var calendarSource commitments.BusySource = googlecalendar.Disabled{}
	if cfg.Calendar.Enabled {
		var opts []option.ClientOption
		if cfg.Calendar.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Calendar.CredentialsFile))
		}

		calendarClient, err := googlecalendar.NewClient(
			startupCtx,
			cfg.Calendar.CalendarID,
			scheduleCfg.Location,
			time.Duration(cfg.Calendar.Timeout)*time.Second,
			log,
			opts...,
		)
		if err != nil {
			log.Fatal("Failed to initialize Google Calendar client: %v", err)
		}
		calendarSource = calendarClient
		log.Info("Google Calendar feed enabled (calendar=%s, timeout=%ds)", cfg.Calendar.CalendarID, cfg.Calendar.Timeout)
	} else {
		log.Warn("Google Calendar feed disabled, only the booking ledger is consulted")
	}

	commitmentsSvc := commitments.NewService(calendarSource, bookingRepository, metricsCollector, log)
	slotLocker := lock.NewSlotLocker(rdb, time.Duration(cfg.Booking.LockTTLSeconds)*time.Second)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		commitmentsSvc,
		slotLocker,
		txMgr,
		scheduleCfg,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(commitmentsSvc, scheduleCfg, metricsCollector, log)
	getOpenDatesUseCase := getOpenDatesUC.NewUseCase(scheduleCfg, log)
	checkSlotUseCase := checkSlotUC.NewUseCase(commitmentsSvc, scheduleCfg, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		commitmentsSvc,
		slotLocker,
		txMgr,
		metricsCollector,
		scheduleCfg,
		createBookingUC.UUIDGenerator{},
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getOpenDates := getOpenDatesHandler.NewHandler(getOpenDatesUseCase, log)
	checkSlot := checkSlotHandler.NewHandler(checkSlotUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := wrappedDB.PingContext(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// AVAILABILITY (публичные, с rate limit)
	// ============================================================

	availability := api.PathPrefix("/availability").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			rdb,
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			"availability:",
			log,
		)
		if err := limiter.TrustProxies(cfg.RateLimit.TrustedProxies); err != nil {
			log.Fatal("Invalid ratelimit.trusted_proxies: %v", err)
		}
		availability.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %d requests per %ds", cfg.RateLimit.Requests, cfg.RateLimit.WindowSeconds)
	}

	// Слоты на дату
	availability.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Рабочие даты в окне бронирования
	availability.HandleFunc("/dates", getOpenDates.Handle).Methods(http.MethodGet)

	// Повторная проверка слота перед бронированием
	availability.HandleFunc("/check", checkSlot.Handle).Methods(http.MethodGet)

	// ============================================================
	// BOOKINGS
	// ============================================================

	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
