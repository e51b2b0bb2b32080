package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/radiographapp/backend/pkg/common/config"
	"github.com/radiographapp/backend/pkg/common/database"
	"github.com/radiographapp/backend/pkg/common/kafka"
	"github.com/radiographapp/backend/pkg/common/logger"
	"github.com/radiographapp/backend/pkg/gateway/auth"
	"github.com/radiographapp/backend/pkg/gateway/middleware"
	"github.com/radiographapp/backend/pkg/gateway/routes"
	"github.com/radiographapp/backend/pkg/identity"
	"github.com/radiographapp/backend/pkg/observability/metrics"
	"github.com/radiographapp/backend/pkg/radiograph"
	"github.com/radiographapp/backend/pkg/terminology"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	identityRepo := identity.NewRepository(db)
	if err := identityRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate identity tables")
	}

	recordRepo := radiograph.NewRepository(db)
	if err := recordRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate radiograph tables")
	}

	tokenSigner, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to configure token signer")
	}

	producer := kafka.NewProducer(cfg.RecordTopic)
	defer producer.Close()

	var dlq radiograph.EventPublisher
	if cfg.RecordDLQTopic != "" {
		dlqProducer := kafka.NewProducer(cfg.RecordDLQTopic)
		defer dlqProducer.Close()
		dlq = dlqProducer
	}

	cache := radiograph.NewDetailCache(database.GetRedis(), cfg.DetailCacheTTL)

	identitySvc := identity.NewService(identityRepo)
	guard := radiograph.NewGuard(recordRepo)
	validator := radiograph.NewValidator()
	recordSvc := radiograph.NewService(validator, guard, cache, producer, dlq)

	catalog, err := terminology.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to built-in x-ray catalog")
	}

	authHandler := routes.NewAuthHandler(identitySvc, tokenSigner)
	recordHandler := radiograph.NewHandler(recordSvc)
	catalogHandler := terminology.NewHandler(catalog)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Logging)
	api.Use(middleware.Recovery)
	api.Use(middleware.CORS(cfg.CORSOrigins))
	api.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	api.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	authHandler.Register(api.PathPrefix("/auth").Subrouter())
	catalogHandler.Register(api)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(tokenSigner))
	recordHandler.Register(protected)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Radiograph Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Radiograph Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	if err := database.CloseRedis(); err != nil {
		logger.Log.WithError(err).Warn("failed to close redis client")
	}
	if err := database.ClosePostgres(); err != nil {
		logger.Log.WithError(err).Warn("failed to close postgres connection")
	}

	logger.Log.Info("Radiograph Service stopped")
}
