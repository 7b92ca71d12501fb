package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcAdapter "github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/grpc"
	natsAdapter "github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/repository/memory"
	mongoRepo "github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/repository/mongodb"
	redisRepo "github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/repository/redis"
	sqliteRepo "github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/repository/sqlite"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/rest"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/auth"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/config"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/usecase"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/tracer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

const (
	shutdownTimeout = 10 * time.Second
	requestTimeout  = 30 * time.Second

	sessionSweepInterval = 5 * time.Minute
)

func main() {
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.Load(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", "error", err.Error())
	}
	appLogger = appLogger.Named(cfg.ServiceName)
	appLogger.Info("Application starting...", "kv_backend", cfg.KVBackend)

	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTelExporterOTLPEndpoint, appLogger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", "error", err.Error())
		}
	}()

	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)

	store, closeStore, err := openStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open key-value store", "backend", cfg.KVBackend, "error", err.Error())
	}
	defer closeStore()

	listingOpts := []usecase.ListingOption{usecase.WithMetrics(metricsManager)}

	if cfg.NATSURL != "" {
		publisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", "error", err.Error())
		}
		defer publisher.Close()
		listingOpts = append(listingOpts, usecase.WithPublisher(publisher))
		appLogger.Info("NATS publisher initialized", "url", cfg.NATSURL)
	} else {
		appLogger.Info("NATS publishing disabled: NATS_URL is not set")
	}

	var mail domain.Mailer
	if cfg.MailEnabled() {
		smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPEmail,
			Password: cfg.SMTPPassword,
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize mailer", "error", err.Error())
		}
		mail = smtpMailer
		listingOpts = append(listingOpts, usecase.WithMailer(smtpMailer))
		appLogger.Info("SMTP mailer initialized", "host", cfg.SMTPHost)
	} else {
		appLogger.Info("Email disabled: SMTP_EMAIL or SMTP_PASSWORD is not set")
	}

	var photoStorage domain.PhotoStorage
	if cfg.MinIOEndpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3Storage, err := s3.NewS3Storage(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey,
			cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
		cancel()
		if err != nil {
			appLogger.Fatal("Failed to initialize photo storage", "error", err.Error())
		}
		photoStorage = s3Storage
	} else {
		appLogger.Info("Object storage disabled: photos are kept inline as data URLs")
	}

	listingUsecase := usecase.NewListingUsecase(store, appLogger.Named("listings"), listingOpts...)
	board := usecase.NewBoard(store, appLogger.Named("board"), usecase.WithSessionTTL(cfg.SessionTTL))
	board.StartSweeper(sessionSweepInterval)
	defer board.Stop()
	photoUsecase := usecase.NewPhotoUsecase(photoStorage, appLogger.Named("photos"))
	inquiryUsecase := usecase.NewInquiryUsecase(listingUsecase, mail, appLogger.Named("inquiries"))
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL, cfg.ServiceName)

	limiter := rest.NewRateLimiter(rest.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimitRPS),
		Burst: cfg.RateLimitBurst,
	}, appLogger)
	defer limiter.Stop()

	restHandler := rest.NewHandler(listingUsecase, board, photoUsecase, inquiryUsecase, tokens, appLogger.Named("http"))
	httpServer := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: rest.NewRouter(restHandler, appLogger, rest.RouterOptions{
			RateLimiter: limiter,
			Metrics:     metricsManager,
			Timeout:     requestTimeout,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", "error", err.Error())
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", "port", cfg.GRPCPort, "error", err.Error())
	}
	grpcHandler := grpcAdapter.NewHandler(listingUsecase, board, tokens, appLogger.Named("grpc"))
	grpcServer, stopGRPC := grpcAdapter.NewGRPCServer(appLogger, tokens, board, metricsManager, grpcHandler)
	go func() {
		appLogger.Info("Starting gRPC server", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server failed", "error", err.Error())
		}
	}()

	metricsServer := metrics.NewMetricsServer(cfg.MetricsPort, appLogger, metricsManager.Registry)
	if metricsServer != nil {
		go func() {
			appLogger.Info("Starting Prometheus metrics server", "port", cfg.MetricsPort)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", "error", err.Error())
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err.Error())
	}
	stopGRPC()
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			appLogger.Error("Prometheus metrics server shutdown failed", "error", err.Error())
		}
	}
	appLogger.Info("Application shutting down...")
}

// openStore connects the configured key-value backend. The returned func
// releases it.
func openStore(cfg *config.Config, appLogger *logger.Logger) (domain.KeyValueStore, func(), error) {
	switch cfg.KVBackend {
	case config.BackendMemory:
		appLogger.Warn("Using the in-memory store: data is lost on restart")
		return memory.NewStore(), func() {}, nil

	case config.BackendSQLite:
		store, err := sqliteRepo.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		appLogger.Info("SQLite store opened", "path", cfg.SQLitePath)
		return store, func() {
			if err := store.Close(); err != nil {
				appLogger.Error("Error closing SQLite store", "error", err.Error())
			}
		}, nil

	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := redisRepo.NewStore(ctx, redisRepo.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		appLogger.Info("Redis store connected", "address", cfg.RedisAddress)
		return store, func() {
			if err := store.Close(); err != nil {
				appLogger.Error("Error closing Redis store", "error", err.Error())
			}
		}, nil

	case config.BackendMongoDB:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
		}
		appLogger.Info("Successfully connected and pinged MongoDB", "database", cfg.MongoDB)
		return mongoRepo.NewKVStore(client.Database(cfg.MongoDB), appLogger), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				appLogger.Error("Error disconnecting from MongoDB", "error", err.Error())
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown KV_BACKEND %q", cfg.KVBackend)
}
