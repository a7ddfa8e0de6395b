package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/slerbakk/storefront/internal/cache"
	"github.com/slerbakk/storefront/internal/catalog"
	"github.com/slerbakk/storefront/internal/checkout"
	"github.com/slerbakk/storefront/internal/contact"
	h "github.com/slerbakk/storefront/internal/http"
	"github.com/slerbakk/storefront/internal/session"
	"github.com/slerbakk/storefront/internal/telemetry"
	"github.com/slerbakk/storefront/pkg/logger"
)

type Config struct {
	HTTPPort        string
	GRPCHealthPort  string
	CatalogBaseURL  string
	CatalogTimeout  time.Duration
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	SendGridAPIKey  string
	ContactFrom     string
	ContactTo       string
	SessionTTL      time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	OTLPEndpoint    string
	LogLevel        string
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		GRPCHealthPort:  getEnv("GRPC_HEALTH_PORT", "50051"),
		CatalogBaseURL:  getEnv("CATALOG_BASE_URL", catalog.DefaultBaseURL),
		CatalogTimeout:  getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    getEnvList("KAFKA_BROKERS"),
		SendGridAPIKey:  getEnv("SENDGRID_API_KEY", ""),
		ContactFrom:     getEnv("CONTACT_FROM", ""),
		ContactTo:       getEnv("CONTACT_TO", ""),
		SessionTTL:      getEnvDuration("SESSION_TTL", session.DefaultTTL),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("invalid duration, using default")
		return defaultValue
	}
	return d
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	tp, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracer provider")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Error("error shutting down tracer provider")
		}
	}()

	productCache, closeCache := newProductCache(ctx, cfg, log)
	defer closeCache()

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout, log)
	catalogService := catalog.NewService(catalogClient, productCache, log)

	sessions := session.NewRegistry(cfg.SessionTTL, nil, log)
	defer sessions.Close()

	var publisher checkout.Publisher = checkout.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = checkout.NewKafkaPublisher(cfg.KafkaBrokers...)
		log.WithField("brokers", cfg.KafkaBrokers).Info("publishing order events to kafka")
	}
	defer publisher.Close()
	checkoutService := checkout.NewService(publisher, nil, log)

	var sender contact.Sender = contact.LogSender{Log: log}
	if cfg.SendGridAPIKey != "" {
		sender = contact.NewSendGridSender(cfg.SendGridAPIKey, cfg.ContactFrom, cfg.ContactTo)
	}
	contactService := contact.NewService(sender, nil)

	router := h.NewRouter(h.RouterConfig{
		Sessions:       sessions,
		SessionTTL:     cfg.SessionTTL,
		RequestTimeout: cfg.RequestTimeout,
		Products:       h.NewProductHandler(catalogService, cfg.RequestTimeout, log),
		Cart:           h.NewCartHandler(catalogService, cfg.RequestTimeout, log),
		Toasts:         h.NewToastHandler(),
		Checkout:       h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout, log),
		Contact:        h.NewContactHandler(contactService, cfg.RequestTimeout, log),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	grpcServer, healthServer, err := startHealthServer(cfg.GRPCHealthPort, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start health server")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	grpcServer.GracefulStop()

	log.Info("server exited")
}

// newProductCache connects to Redis when an address is configured. Without
// Redis every catalog read goes upstream.
func newProductCache(ctx context.Context, cfg *Config, log logrus.FieldLogger) (cache.ProductCache, func()) {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, catalog caching disabled")
		return cache.NopCache{}, func() {}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis ping failed, catalog caching disabled")
		redisClient.Close()
		return cache.NopCache{}, func() {}
	}
	log.WithField("addr", cfg.RedisAddr).Info("redis ping succeeded")

	return cache.NewRedisCache(redisClient), func() { redisClient.Close() }
}

func startHealthServer(port string, log logrus.FieldLogger) (*grpc.Server, *health.Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return nil, nil, fmt.Errorf("listen: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthServer := health.NewServer()
	healthServer.SetServingStatus(telemetry.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	go func() {
		log.Infof("health server listening on :%s", port)
		if err := grpcServer.Serve(lis); err != nil {
			log.WithError(err).Error("health server stopped")
		}
	}()

	return grpcServer, healthServer, nil
}
