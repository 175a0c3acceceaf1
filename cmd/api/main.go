package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/visionise-api/docs" // Swagger docs (generated)
	"github.com/redmonkez12/visionise-api/internal/auth"
	"github.com/redmonkez12/visionise-api/internal/cache"
	"github.com/redmonkez12/visionise-api/internal/config"
	"github.com/redmonkez12/visionise-api/internal/database"
	httpServer "github.com/redmonkez12/visionise-api/internal/http"
	"github.com/redmonkez12/visionise-api/internal/logging"
	"github.com/redmonkez12/visionise-api/internal/project"
	"github.com/redmonkez12/visionise-api/internal/task"
)

// @title           Visionise API
// @version         1.0
// @description     Project and task management API with signup, signin and bearer-token protected resources.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	if cfg.Auth.TokenFormat == config.TokenFormatJWT && cfg.Auth.UsesDefaultSecret() && !cfg.Server.IsDevelopment() {
		logger.Warn("JWT_SECRET is not set, tokens are signed with the default secret")
	}

	// Initialize store
	ctx := context.Background()
	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close(context.Background())

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("database ready", "driver", store.Driver, "db_name", store.Name)

	// Project reads go through Redis when it is configured
	var projects project.Repository = store.Projects
	if cfg.Redis.Enabled() {
		redisClient, projectCache, err := initRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		projects = project.NewCachedRepository(projects, projectCache, cfg.Redis.TTL, logger)
		logger.Info("project cache enabled", "addr", cfg.Redis.Address(), "ttl", cfg.Redis.TTL)
	}

	tokenService, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize services
	hasher := auth.NewPasswordHasher(auth.DefaultArgon2Params)
	authService := auth.NewService(store.Users, tokenService, hasher, cfg.Auth.TokenValidity)
	projectService := project.NewService(projects, store.Tasks, store.Users)
	taskService := task.NewService(store.Tasks)

	// Initialize HTTP handlers
	handlers := httpServer.Handlers{
		Auth:     auth.NewHandler(authService),
		Projects: project.NewHandler(projectService),
		Tasks:    task.NewHandler(taskService),
	}
	authMiddleware := auth.NewMiddleware(tokenService)

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, store, logger)

	// Initialize HTTP server
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initTokenService picks the token format configured by TOKEN_FORMAT
func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenFormat == config.TokenFormatPaseto {
		return auth.NewPasetoService(cfg.PasetoKey)
	}
	return auth.NewJWTService(cfg.JWTSecret)
}

// initRedis connects to Redis and returns the client with a cache
// scoped to this service's key prefix
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, *cache.RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	rc := cache.NewRedisCache(client, "visionise:")

	// Verify connection
	if err := rc.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, rc, nil
}
