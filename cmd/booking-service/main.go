package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/example/workshop-booking/internal/availability"
	"github.com/example/workshop-booking/internal/booking"
	"github.com/example/workshop-booking/internal/dialog"
	"github.com/example/workshop-booking/internal/handlers"
	"github.com/example/workshop-booking/internal/outbox"
	"github.com/example/workshop-booking/internal/schedule"
	"github.com/example/workshop-booking/internal/storage"
	"github.com/example/workshop-booking/libs/config"
	"github.com/example/workshop-booking/libs/db"
	"github.com/example/workshop-booking/libs/httpx"
	"github.com/example/workshop-booking/libs/kafkax"
	otelx "github.com/example/workshop-booking/libs/otel"
	"github.com/example/workshop-booking/libs/runtime"
)

func main() {
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	var (
		store      storage.Store
		eventSink  booking.EventSink
		readyCheck []runtime.ReadyCheck
	)
	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	if dbURL := config.String("DATABASE_URL", ""); dbURL != "" {
		pool, err := db.Open(ctx, dbURL)
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		defer pool.Close()

		if err := storage.Migrate(ctx, pool); err != nil {
			logger.Error("records migration failed", "err", err)
			panic(err)
		}
		if err := outbox.Migrate(ctx, pool); err != nil {
			logger.Error("outbox migration failed", "err", err)
			panic(err)
		}

		store = storage.NewPostgresStore(pool)
		readyCheck = append(readyCheck, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})

		outboxRepo := outbox.NewRepository(pool)
		eventSink = outboxRepo
		publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
			Brokers:   kafkaBrokers,
			PollEvery: config.Duration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
		})
		go publisher.Run(ctx)

		if kafkaBrokers != "" {
			readyCheck = append(readyCheck, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
		}
	} else {
		logger.Warn("DATABASE_URL not set; using in-memory store (dev mode, no events)")
		store = storage.NewMemoryStore()
	}

	hours := schedule.NewProvider(store)
	avail := availability.New(store, hours)
	validator := dialog.NewValidator(avail, hours, nil)
	engine := booking.NewEngine(store, hours, avail, eventSink, logger)

	dialogHandler := handlers.NewDialogHandler(validator, engine, logger)
	publicHandler := handlers.NewPublicHandler(store, avail, logger)
	adminHandler := handlers.NewAdminHandler(hours, config.String("ADMIN_KEY_BCRYPT", ""), logger)

	limit := publicLimiter(logger)
	mux := runtime.NewBaseMuxWithReady(readyCheck...)
	mux.Handle("/api/v1/dialog/turn", limit(http.HandlerFunc(dialogHandler.Turn)))
	mux.Handle("/api/v1/public/slots", limit(http.HandlerFunc(publicHandler.Slots)))
	mux.HandleFunc("/api/v1/appointments", publicHandler.Appointments)
	mux.HandleFunc("/api/v1/admin/hours", adminHandler.Hours)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(64<<10),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: splitCSV(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
			AllowedHeaders: []string{"Content-Type", "X-Admin-Key"},
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

// publicLimiter rate limits the customer-facing endpoints: Redis-backed when
// REDIS_ADDR is set (multi-instance deployments), in-process otherwise.
func publicLimiter(logger *slog.Logger) httpx.Middleware {
	limit := config.Int("RATE_LIMIT", 60)
	window := config.Duration("RATE_WINDOW", time.Minute)

	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
		})
		return httpx.NewRedisRateLimiter(rdb, limit, window, "booking-rl").Middleware(logger, true)
	}
	logger.Warn("REDIS_ADDR not set; using in-process rate limiter")
	return httpx.NewRateLimiter(limit, window).Middleware()
}

func splitCSV(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
