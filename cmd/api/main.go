package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/devconnect-api/docs"
	"github.com/redmonkez12/devconnect-api/internal/account"
	"github.com/redmonkez12/devconnect-api/internal/auth"
	"github.com/redmonkez12/devconnect-api/internal/cascade"
	"github.com/redmonkez12/devconnect-api/internal/config"
	"github.com/redmonkez12/devconnect-api/internal/database"
	httpServer "github.com/redmonkez12/devconnect-api/internal/http"
	"github.com/redmonkez12/devconnect-api/internal/logging"
	"github.com/redmonkez12/devconnect-api/internal/post"
	"github.com/redmonkez12/devconnect-api/internal/profile"
	"github.com/redmonkez12/devconnect-api/internal/ratelimit"
)

// @title           DevConnect API
// @version         1.0
// @description     Developer profiles, credentials and account deletion.

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey TokenAuth
// @in header
// @name x-auth-token
// @description Token returned by register or login.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_format", cfg.Auth.TokenFormat,
	)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db.DB, database.DialectPostgres); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("database migrated")
	}

	var rateLimiter auth.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := initRedis(cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()

		rateLimiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	tokenService, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	accountRepo := account.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	postRepo := post.NewRepository(db)

	authService := auth.NewService(accountRepo, tokenService, logger, cfg.Auth.BcryptCost)
	profileService := profile.NewService(profileRepo, accountRepo, logger)
	postService := post.NewService(postRepo, accountRepo)
	deleter := cascade.NewDeleter(postRepo, profileRepo, accountRepo, logger)

	handlers := httpServer.Handlers{
		Auth:    auth.NewHandler(authService, rateLimiter, logger),
		Profile: profile.NewHandler(profileService),
		Post:    post.NewHandler(postService),
		Cascade: cascade.NewHandler(deleter),
	}
	authMiddleware := auth.NewMiddleware(tokenService)

	router := httpServer.NewRouter(cfg, handlers, authMiddleware, logger)

	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	if cfg.TokenFormat == config.TokenFormatPaseto {
		return auth.NewPasetoService(cfg.TokenSecret, cfg.TokenTTL)
	}
	return auth.NewJWTService(cfg.TokenSecret, cfg.TokenTTL)
}

func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
