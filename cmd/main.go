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

	cancelBookingHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/check_availability"
	createBookingHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/create_booking"
	exportCalendarHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/export_calendar"
	findSplitStayHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/find_split_stay"
	getBookingHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/get_calendar"
	getGuestBookingsHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/get_guest_bookings"
	nextAvailableDateHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/next_available_date"
	setBulkAvailabilityHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/set_bulk_availability"
	syncFeedHandler "github.com/colivehq/CLH-AvailabilityService/internal/api/handlers/sync_feed"
	"github.com/colivehq/CLH-AvailabilityService/internal/api/middleware"
	"github.com/colivehq/CLH-AvailabilityService/internal/config"
	availabilityRepo "github.com/colivehq/CLH-AvailabilityService/internal/infra/storage/availability"
	bookingRepo "github.com/colivehq/CLH-AvailabilityService/internal/infra/storage/booking"
	feedRepo "github.com/colivehq/CLH-AvailabilityService/internal/infra/storage/feed"
	calendarFeedClient "github.com/colivehq/CLH-AvailabilityService/internal/integrations/calendarfeed"
	catalogServiceClient "github.com/colivehq/CLH-AvailabilityService/internal/integrations/catalogservice"
	availabilityService "github.com/colivehq/CLH-AvailabilityService/internal/service/availability"
	bookingsService "github.com/colivehq/CLH-AvailabilityService/internal/service/bookings"
	createBookingUC "github.com/colivehq/CLH-AvailabilityService/internal/usecase/create_booking"
	findSplitStayUC "github.com/colivehq/CLH-AvailabilityService/internal/usecase/find_split_stay"
	syncFeedUC "github.com/colivehq/CLH-AvailabilityService/internal/usecase/sync_feed"
	"github.com/colivehq/CLH-AvailabilityService/pkg/dbmetrics"
	"github.com/colivehq/CLH-AvailabilityService/pkg/logger"
	"github.com/colivehq/CLH-AvailabilityService/pkg/metrics"
	"github.com/colivehq/CLH-AvailabilityService/pkg/simpletxmanager"
	"github.com/colivehq/CLH-AvailabilityService/pkg/txmanager"
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

	log.Info("Starting CLH-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	feedClient := calendarFeedClient.NewClient(
		time.Duration(cfg.Sync.FeedTimeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, feed timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.Sync.FeedTimeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		ledgerRepository  *availabilityRepo.Repository
		bookingRepository *bookingRepo.Repository
		feedRepository    *feedRepo.Repository
	)

	// Интерфейс transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		ledgerRepository = availabilityRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		feedRepository = feedRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		ledgerRepository = availabilityRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		feedRepository = feedRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	availabilitySvc := availabilityService.NewService(
		ledgerRepository,
		txMgr,
		cfg.Availability.HorizonMonths,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		ledgerRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ledgerRepository,
		catalogClient,
		txMgr,
		log,
	)

	findSplitStayUseCase := findSplitStayUC.NewUseCase(
		ledgerRepository,
		catalogClient,
		cfg.Allocator.MaxOptions,
		cfg.Allocator.TieBreak,
		log,
	)

	var syncObserver syncFeedUC.SyncObserver
	if cfg.Metrics.Enabled {
		syncObserver = metricsCollector
	}
	syncFeedUseCase := syncFeedUC.NewUseCase(
		feedRepository,
		ledgerRepository,
		feedClient,
		txMgr,
		syncObserver,
		cfg.Availability.HorizonMonths,
		log,
	)

	// Инициализируем handlers
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilitySvc, log)
	nextAvailableDate := nextAvailableDateHandler.NewHandler(availabilitySvc, log)
	getCalendar := getCalendarHandler.NewHandler(availabilitySvc, log)
	exportCalendar := exportCalendarHandler.NewHandler(availabilitySvc, log)
	findSplitStay := findSplitStayHandler.NewHandler(findSplitStayUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getGuestBookings := getGuestBookingsHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	setBulkAvailability := setBulkAvailabilityHandler.NewHandler(availabilitySvc, log)
	syncFeed := syncFeedHandler.NewHandler(syncFeedUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка доступности интервала
	api.HandleFunc("/apartments/{apartmentId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// Ближайшая свободная дата
	api.HandleFunc("/apartments/{apartmentId}/next-available",
		nextAvailableDate.Handle).Methods(http.MethodGet)

	// Календарь занятости апартамента
	api.HandleFunc("/apartments/{apartmentId}/calendar",
		getCalendar.Handle).Methods(http.MethodGet)

	// Экспорт занятости в iCalendar для внешних площадок
	api.HandleFunc("/apartments/{apartmentId}/calendar.ics",
		exportCalendar.Handle).Methods(http.MethodGet)

	// Поиск вариантов размещения с переездами
	api.HandleFunc("/split-stay/search", findSplitStay.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (в том числе split-stay)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований гостя
	protected.HandleFunc("/guests/{guestId}/bookings", getGuestBookings.Handle).Methods(http.MethodGet)

	// --- Управление доступностью (для администраторов) ---
	// Ручная правка леджера доступности
	protected.HandleFunc("/apartments/{apartmentId}/availability",
		setBulkAvailability.Handle).Methods(http.MethodPut)

	// Запуск синхронизации внешнего календаря
	protected.HandleFunc("/feeds/{feedId}/sync", syncFeed.Handle).Methods(http.MethodPost)

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
