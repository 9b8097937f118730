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

	"github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers"
	approveBookingHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/cancel_booking"
	checkInBookingHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/check_in_booking"
	createBookingHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/get_bookings"
	getRoomHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/get_room"
	getRoomAvailabilityHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/get_room_availability"
	getUserBookingsHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/get_user_bookings"
	sweepNoShowsHandler "github.com/m04kA/SMC-MeetingRoomService/internal/api/handlers/sweep_no_shows"
	"github.com/m04kA/SMC-MeetingRoomService/internal/api/middleware"
	"github.com/m04kA/SMC-MeetingRoomService/internal/config"
	"github.com/m04kA/SMC-MeetingRoomService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-MeetingRoomService/internal/infra/storage/booking"
	roomRepo "github.com/m04kA/SMC-MeetingRoomService/internal/infra/storage/room"
	memberServiceClient "github.com/m04kA/SMC-MeetingRoomService/internal/integrations/memberservice"
	bookingsService "github.com/m04kA/SMC-MeetingRoomService/internal/service/bookings"
	roomsService "github.com/m04kA/SMC-MeetingRoomService/internal/service/rooms"
	checkAvailabilityUC "github.com/m04kA/SMC-MeetingRoomService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-MeetingRoomService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-MeetingRoomService/internal/worker/noshow"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/logger"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/metrics"
	"github.com/m04kA/SMC-MeetingRoomService/pkg/txmanager"
)

// bookingMetrics счётчики решений и переходов бронирований
type bookingMetrics interface {
	ObserveAdmission(outcome string)
	ObserveTransition(status string)
}

// eventPublisher публикатор событий с закрытием при остановке
type eventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
	Close() error
}

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

	log.Info("Starting SMC-MeetingRoomService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		queryObserver    dbmetrics.QueryObserver
		recorder         bookingMetrics = metrics.Nop{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		queryObserver = metricsCollector
		recorder = metricsCollector
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

	wrappedDB := dbmetrics.Wrap(db, queryObserver)
	if cfg.Metrics.Enabled {
		go wrappedDB.CollectPoolStats(
			metricsCollector,
			time.Duration(cfg.Metrics.PoolStatsInterval)*time.Second,
			stopMetricsCh,
		)
		log.Info("Database metrics collection started")
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB).WithMaxAttempts(cfg.Database.TxMaxAttempts)

	// Публикация событий (если Kafka включена)
	var publisher eventPublisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.Topic,
			WriteTimeout: time.Duration(cfg.Kafka.WriteTimeout) * time.Second,
			RequiredAcks: cfg.Kafka.RequiredAcks,
			Source:       cfg.Metrics.ServiceName,
		})
		if err != nil {
			log.Fatal("Failed to create Kafka publisher: %v", err)
		}
		publisher = kafkaPublisher
		log.Info("Kafka publisher enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	// Инициализируем интеграционных клиентов
	memberClient := memberServiceClient.NewClient(
		cfg.MemberService.URL,
		time.Duration(cfg.MemberService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (MemberService=%s timeout=%ds)",
		cfg.MemberService.URL, cfg.MemberService.Timeout)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	roomRepository := roomRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		publisher,
		recorder,
		log,
	)
	roomSvc := roomsService.NewService(roomRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		roomRepository,
		memberClient,
		txMgr,
		publisher,
		recorder,
		log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		bookingRepository,
		roomRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getRoomAvailability := getRoomAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getRoom := getRoomHandler.NewHandler(roomSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	checkInBooking := checkInBookingHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	sweepNoShows := sweepNoShowsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			log.Error("GET /health - Database is unavailable: %v", err)
			handlers.RespondServiceUnavailable(w)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Карточка комнаты
	api.HandleFunc("/rooms/{roomId}", getRoom.Handle).Methods(http.MethodGet)

	// Занятость комнаты на дату и проверка интервала
	api.HandleFunc("/rooms/{roomId}/availability", getRoomAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Список бронирований с фильтрами
	protected.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)

	// Ручной перевод просроченных бронирований в no_show
	protected.HandleFunc("/bookings/no-show-sweep", sweepNoShows.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение использования комнаты
	protected.HandleFunc("/bookings/{bookingId}/check-in", checkInBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение бронирования комнаты с согласованием
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Фоновый перевод в no_show
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if cfg.NoShowSweep.Enabled {
		sweeper := noshow.NewSweeper(
			bookingSvc,
			time.Duration(cfg.NoShowSweep.Interval)*time.Second,
			log,
		)
		go sweeper.Run(workerCtx)
		log.Info("No-show sweeper started (interval=%ds)", cfg.NoShowSweep.Interval)
	}

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

	stopWorkers()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
