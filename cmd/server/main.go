package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cafeteria-booking/internal/booking"
	"github.com/iliyamo/cafeteria-booking/internal/config"
	"github.com/iliyamo/cafeteria-booking/internal/database"
	"github.com/iliyamo/cafeteria-booking/internal/handler"
	"github.com/iliyamo/cafeteria-booking/internal/middleware"
	"github.com/iliyamo/cafeteria-booking/internal/queue"
	"github.com/iliyamo/cafeteria-booking/internal/repository"
	"github.com/iliyamo/cafeteria-booking/internal/router"
	"github.com/iliyamo/cafeteria-booking/internal/service"
)

func main() {
	if os.Getenv("APP_ENV") != "prod" {
		_ = godotenv.Load() // a missing .env is fine outside production
	}
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	logger := newLogger(cfg.LogLevel)
	e.Logger = logger
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warnf("%s %s -> %d (%s): %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			logger.Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatalf("mysql: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatalf("mysql migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable: using in-memory sessions, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	catalog := booking.DefaultCatalog()
	policy := booking.SeatPolicy{PoolSize: cfg.SeatPoolSize, Price: cfg.SeatPrice}
	svc := service.NewBookingService(catalog, policy, sessionStore(rdb), repository.NewReceiptRepo(db),
		publisher(ctx, cfg, logger), cfg.SessionTTL, logger)

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, handler.NewCatalogHandler(catalog), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, handler.NewBookingHandler(svc), middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterStalls(e, handler.NewStallHandler(repository.NewStallRepo(repository.DefaultStalls())),
		handler.NewStaffAuthHandler(cfg), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s, payment=%s)", addr, cfg.Env, cfg.PaymentMode)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

func newLogger(level string) *log.Logger {
	l := log.New("cafeteria")
	l.SetHeader("${time_rfc3339} ${level} ${prefix}")
	switch strings.ToUpper(level) {
	case "DEBUG":
		l.SetLevel(log.DEBUG)
	case "WARN":
		l.SetLevel(log.WARN)
	case "ERROR":
		l.SetLevel(log.ERROR)
	default:
		l.SetLevel(log.INFO)
	}
	return l
}

func sessionStore(rdb *redis.Client) repository.SessionStore {
	if rdb == nil {
		return repository.NewMemorySessionStore()
	}
	return repository.NewRedisSessionStore(rdb, "cafeteria:session")
}

// publisher picks the payment hand-off.  In amqp mode the consumer that
// records requests runs in the same process until ctx is cancelled.
func publisher(ctx context.Context, cfg config.Config, logger *log.Logger) service.EventPublisher {
	if cfg.PaymentMode == "stub" {
		return &service.LogPublisher{Logger: logger}
	}
	consumer := &queue.Consumer{URL: cfg.RabbitURL, LogDir: "logs", Logger: logger}
	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("payment-consumer stopped: %v", err)
		}
	}()
	return &service.AMQPPublisher{URL: cfg.RabbitURL, Logger: logger}
}
