package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api"
	"github.com/sahil-lab/realEstate/internal/api/middleware"
	"github.com/sahil-lab/realEstate/internal/cache"
	"github.com/sahil-lab/realEstate/internal/config"
	"github.com/sahil-lab/realEstate/internal/db"
	"github.com/sahil-lab/realEstate/internal/email"
	"github.com/sahil-lab/realEstate/internal/logger"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/services"
	"github.com/sahil-lab/realEstate/internal/storage"
	"github.com/sahil-lab/realEstate/internal/store"
	"github.com/sahil-lab/realEstate/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (background tasks), 'img' (image processing), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch cfg.RunMode {
	case "api", "bg", "img", "all":
	default:
		log.Fatal("Invalid run mode", zap.String("mode", cfg.RunMode))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(cfg.MetricsPrefix, registry)

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient, log); err != nil {
			log.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx, mongoDb); err != nil {
		cancelIndex()
		log.Fatal("Failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	stores := store.NewMongoStores(mongoDb, m)

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient, log); err != nil {
			log.Error("Error disconnecting from Redis", zap.Error(err))
		}
	}()

	// Image storage is optional; upload endpoints answer 503 without it.
	var imageStorage storage.IS3Storage
	if cfg.AwsS3Bucket != "" {
		imageStorage, err = storage.NewS3Storage(context.Background(), cfg)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
	} else {
		log.Warn("AWS_S3_BUCKET not set, image uploads are disabled")
	}

	// Initialize Email Sender
	var primaryEmailSender email.Sender
	if cfg.MockServices {
		log.Info("MOCK_SERVICES enabled: using Redis email sender")
		primaryEmailSender = email.NewRedisSender(redisClient, cfg, log)
	} else {
		primaryEmailSender = email.NewSMTPSender(cfg, log)
	}
	compositeSender := email.NewCompositeEmailSender(primaryEmailSender)
	if cfg.EmailLogFile != "" {
		fileSender, err := email.NewFileEmailSender(cfg.EmailLogFile, log)
		if err != nil {
			log.Warn("Failed to initialize file email sender, proceeding without it",
				zap.String("path", cfg.EmailLogFile), zap.Error(err))
		} else {
			compositeSender.AddSender(fileSender)
		}
	}

	// Task queue
	taskClient := tasks.NewClient(redisClient)
	defer func() {
		if err := taskClient.Close(); err != nil {
			log.Error("Error closing task client", zap.Error(err))
		}
	}()
	enqueuer := tasks.NewEnqueuer(taskClient)

	// Initialize Services
	access := services.NewAccessControl(stores.Accounts)
	accountService := services.NewAccountService(stores.Accounts, access, nil)
	listingService := services.NewListingService(stores.Listings, access, imageStorage, enqueuer, m, nil)
	inquiryService := services.NewInquiryService(stores.Inquiries, stores.Accounts, access, enqueuer, m, log, nil)
	favoriteService := services.NewFavoriteService(stores.Favorites, m, nil)
	analyticsService := services.NewAnalyticsService(stores.Accounts, stores.Listings, stores.Inquiries, access, nil)
	emailTemplateService := services.NewEmailTemplateService(stores.EmailTemplates)

	taskProcessor := tasks.NewTaskProcessor(cfg, log, compositeSender, emailTemplateService,
		inquiryService, listingService, stores.Accounts, imageStorage, enqueuer)

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Channel to signal shutdown from Service API
	shutdownChan := make(chan struct{}, 1)

	// Service API (always runs)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(redisClient, registry, shutdownChan, log),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Service API listening", zap.String("port", cfg.ServiceApiPort))
		if err := serviceSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Service API ListenAndServe error", zap.Error(err))
		}
	}()

	var mainApiSrv *http.Server
	if cfg.RunMode == "api" || cfg.RunMode == "all" {
		limiter := middleware.NewRateLimiterMiddleware(cfg.RateLimitBucketSize, cfg.RateLimitRefillRate)
		go limiter.RunCleanup(ctx, 5*time.Minute, log)

		router := api.SetupRouter(cfg, api.Services{
			Accounts:  accountService,
			Listings:  listingService,
			Inquiries: inquiryService,
			Favorites: favoriteService,
			Analytics: analyticsService,
		}, limiter, m, log)
		mainApiSrv = &http.Server{
			Addr:    ":" + cfg.ApiPort,
			Handler: router,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("Main API listening", zap.String("port", cfg.ApiPort))
			if err := mainApiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal("Main API ListenAndServe error", zap.Error(err))
			}
		}()
	}

	isBgWorker := cfg.RunMode == "bg" || cfg.RunMode == "all"
	isImageWorker := cfg.RunMode == "img" || cfg.RunMode == "all"
	if isImageWorker && imageStorage == nil {
		log.Warn("Image worker requested without S3 storage; image tasks will be skipped")
	}
	var taskSrv *asynq.Server
	if srv, mux := tasks.SetupServer(redisClient, taskProcessor, log, m, isImageWorker, isBgWorker); srv != nil {
		log.Info("Task server starting", zap.Bool("background", isBgWorker), zap.Bool("images", isImageWorker))
		if err := srv.Start(mux); err != nil {
			log.Fatal("Task server error", zap.Error(err))
		}
		taskSrv = srv
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case <-shutdownChan:
		log.Info("Shutdown requested via Service API")
	}
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Error("Service API server shutdown error", zap.Error(err))
	}
	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Error("Main API server shutdown error", zap.Error(err))
		}
	}
	if taskSrv != nil {
		taskSrv.Shutdown()
	}

	wg.Wait()
	log.Info("Server gracefully stopped")
}
