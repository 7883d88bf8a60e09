package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/kodbank/kodbank-api/internal/config"
	"github.com/kodbank/kodbank-api/internal/handlers"
	"github.com/kodbank/kodbank-api/internal/jwt"
	"github.com/kodbank/kodbank-api/internal/logger"
	"github.com/kodbank/kodbank-api/internal/middlewares"
	"github.com/kodbank/kodbank-api/internal/password"
	"github.com/kodbank/kodbank-api/internal/producers"
	"github.com/kodbank/kodbank-api/internal/repositories"
	"github.com/kodbank/kodbank-api/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title kodbank-api
// @version 1.0.0
// @description Banking demo backend: registration, login and protected account reads
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// run initializes the logger, database, Redis, Kafka producer, and HTTP
// server. It sets up routes, applies middleware, and handles graceful
// shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	if cfg.JWTSecretKey == config.DefaultJWTSecret {
		logger.Log.Warn("JWT_SECRET_KEY not set, using the development default; do not run production like this")
	}

	// Connect to PostgreSQL
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d", cfg.PostgresHost, cfg.PostgresPort)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		logger.Log.Error("PostgreSQL connection error:", err)
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Error("PostgreSQL ping failed:", err)
		return err
	}

	// Best-effort schema bootstrap: a managed deployment may have applied
	// the schema out of band and revoked DDL rights.
	if err := repositories.EnsureSchema(ctx, db); err != nil {
		logger.Log.Warnw("schema bootstrap failed, continuing", "error", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	var tokenCache services.TokenCache
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Warnw("Redis unavailable, token presence checks go straight to the store", "error", err)
		rdb.Close()
	} else {
		tokenCache = repositories.NewTokenCacheRepository(rdb)
		defer rdb.Close()
	}

	// Kafka producer for registration events, disabled without brokers
	var notifier services.RegistrationNotifier
	if cfg.KafkaBrokers != "" {
		producer := producers.NewUserEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		defer producer.Close()
		notifier = producer
		logger.Log.Infof("Publishing registration events to %s", cfg.KafkaTopic)
	}

	// Initialize token service and hasher
	tokenService := jwt.New(cfg.JWTSecretKey, cfg.JWTExp)
	hasher := password.New(cfg.BcryptCost)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, middlewares.GetTxFromContext)
	tokenReadRepo := repositories.NewTokenReadRepository(db)
	tokenWriteRepo := repositories.NewTokenWriteRepository(db, middlewares.GetTxFromContext)

	// Initialize services
	authService := services.NewAuthService(
		userReadRepo, userWriteRepo, tokenWriteRepo, hasher, tokenService, notifier, cfg.StartingBalance)
	sessionService := services.NewSessionService(tokenService, tokenReadRepo, tokenCache, cfg.TokenPresenceCheck)
	accountService := services.NewAccountService(userReadRepo)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	logoutHandler := handlers.NewLogoutHandler(authService, sessionService)
	balanceHandler := handlers.NewBalanceHandler(accountService)
	profileHandler := handlers.NewProfileHandler(accountService)
	healthHandler := handlers.NewHealthHandler(db)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	// Public routes
	r.Get("/", healthHandler)
	r.Get("/health", healthHandler)
	r.With(middlewares.TxMiddleware(db)).Post("/register", registerHandler)
	r.With(middlewares.TxMiddleware(db)).Post("/login", loginHandler)

	// Protected routes
	authMiddleware := middlewares.AuthMiddleware(sessionService)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/balance", balanceHandler)
		r.Get("/profile", profileHandler)
		r.With(middlewares.TxMiddleware(db)).Post("/logout", logoutHandler)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/swagger/doc.json", cfg.HTTPAddr())),
	))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.HTTPAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
