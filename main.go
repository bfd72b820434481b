package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"camping-admin/backend"
	"camping-admin/config"
	"camping-admin/dashboard"
	"camping-admin/database"
	"camping-admin/handlers"
	"camping-admin/kafka"
	"camping-admin/middleware"
	"camping-admin/notify"
	"camping-admin/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const serviceName = "camping-admin"

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.InsecureSessionSecret() {
		logger.Warn("SESSION_SECRET is unset or uses the built-in default; session handles can be forged")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Session store: redis when enabled, process memory otherwise
	var (
		redisClient *redis.Client
		store       session.Store = session.NewMemoryStore()
		broadcaster session.Broadcaster
	)
	if cfg.Redis.Enabled {
		redisClient, err = session.InitRedis(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
		broadcaster = session.NewRedisBroadcaster(redisClient)
	} else {
		logger.Warn("Redis disabled, sessions are kept in memory")
	}

	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = database.InitDB(cfg.DatabaseDSN(), logger)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
	}

	var (
		kafkaPublisher *kafka.Publisher
		publisher      notify.Publisher
	)
	if cfg.Kafka.Enabled {
		producer, err := kafka.InitProducer(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Kafka producer", zap.Error(err))
		}
		kafkaPublisher = kafka.NewPublisher(producer, cfg.Kafka.Topic, logger)
		publisher = kafkaPublisher
	}

	// Initialize OpenTelemetry
	shutdownTracing := func() {}
	if cfg.Tracing.Enabled {
		shutdownTracing, err = middleware.InitTracing(serviceName, cfg.Tracing.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	client := backend.NewClient(cfg.Backend.URL, backend.NewHTTPClient(cfg.Backend.Timeout), logger)
	gate := session.NewGate(store, broadcaster, logger)
	signer := session.NewSigner(cfg.Session.Secret)

	var scope *handlers.Scope
	registry := dashboard.NewRegistry(dashboard.Options{
		NewAPI:       func(token string) dashboard.API { return client.WithToken(token) },
		UploadsURL:   cfg.Backend.UploadsURL,
		PollInterval: cfg.Notifications.PollInterval,
		Publisher:    publisher,
		OnUnauthorized: func(sessionID string) {
			scope.ForceLogout(context.Background(), sessionID)
		},
		Alive: func(ctx context.Context, sessionID string) bool {
			_, err := gate.Authenticated(ctx, sessionID)
			return !errors.Is(err, session.ErrNoSession)
		},
		Logger: logger,
	})
	scope = handlers.NewScope(client, gate, registry, handlers.CookieConfig{
		MaxAge: int(cfg.Session.TTL / time.Second),
		Secure: cfg.Session.CookieSecure,
	}, logger)

	gate.Subscribe(registry.HandleAuthEvent)
	go func() {
		if err := gate.Run(ctx); err != nil {
			logger.Error("Auth event subscription stopped", zap.Error(err))
		}
	}()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	// OpenTelemetry middleware must be first to extract trace context
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SessionMiddleware(signer, gate, logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", middleware.PrometheusHandler())

	// Pages
	router.GET(session.RouteLogin, handlers.Page)
	router.GET(session.RouteDashboard, handlers.Page)
	router.GET(session.RouteOrders, handlers.Page)
	router.GET(session.RouteTerms, handlers.Page)
	router.NoRoute(handlers.Page)

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(scope, signer)
	router.POST("/api/login", authHandler.Login)
	router.POST("/api/logout", authHandler.Logout)
	router.GET("/api/session", authHandler.Session)

	api := router.Group("/api", middleware.RequireSession())

	dashboardHandler := handlers.NewDashboardHandler(scope, cfg.Backend.UploadsURL)
	api.GET("/dashboard", dashboardHandler.Overview)

	profileHandler := handlers.NewProfileHandler(scope)
	api.GET("/profile", profileHandler.GetProfile)
	api.PATCH("/profile", profileHandler.UpdateProfile)

	// Order endpoints
	orderHandler := handlers.NewOrderHandler(scope)
	api.GET("/orders", orderHandler.GetOrders)
	api.GET("/orders/stats", orderHandler.GetStats)
	api.GET("/orders/export", orderHandler.ExportOrders)
	api.GET("/orders/:id", orderHandler.GetOrder)
	api.PATCH("/orders/:id", orderHandler.UpdateOrder)
	api.DELETE("/orders/:id", orderHandler.DeleteOrder)

	// Product endpoints
	productHandler := handlers.NewProductHandler(scope)
	api.GET("/products", productHandler.GetProducts)
	api.POST("/products", productHandler.CreateProduct)
	api.PATCH("/products/:id", productHandler.UpdateProduct)
	api.DELETE("/products/:id", productHandler.DeleteProduct)
	api.DELETE("/products/:id/image", productHandler.DeleteProductImage)
	api.GET("/categories", productHandler.GetCategories)

	notificationHandler := handlers.NewNotificationHandler(scope)
	api.GET("/notifications", notificationHandler.GetNotifications)
	api.POST("/notifications/:id/read", notificationHandler.MarkRead)

	// Terms endpoints; reading is public
	if db != nil {
		termsHandler := handlers.NewTermsHandler(db, logger)
		router.GET("/api/terms", termsHandler.GetSections)
		api.POST("/terms", termsHandler.CreateSection)
		api.PUT("/terms/:id", termsHandler.UpdateSection)
		api.DELETE("/terms/:id", termsHandler.DeleteSection)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Camping admin started",
		zap.String("addr", srv.Addr),
		zap.String("backend", cfg.Backend.URL),
	)

	gracefulShutdown(srv, registry, stop, db, redisClient, kafkaPublisher, shutdownTracing, cfg.Server.ShutdownTimeout, logger)
}

// gracefulShutdown handles SIGINT/SIGTERM and shuts everything down in
// reverse order of startup.
func gracefulShutdown(
	srv *http.Server,
	registry *dashboard.Registry,
	stopBackground context.CancelFunc,
	db *sql.DB,
	redisClient *redis.Client,
	kafkaPublisher *kafka.Publisher,
	shutdownTracing func(),
	timeout time.Duration,
	logger *zap.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received. Exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server stopped gracefully")
	}

	// Stop pollers and the auth event subscription
	registry.Shutdown()
	stopBackground()
	logger.Info("Workspaces closed")

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("Failed to close Kafka producer", zap.Error(err))
		} else {
			logger.Info("Kafka producer closed gracefully")
		}
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		} else {
			logger.Info("Database connection closed gracefully")
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis", zap.Error(err))
		} else {
			logger.Info("Redis closed gracefully")
		}
	}

	shutdownTracing()
	logger.Info("Camping admin exited gracefully")
}
