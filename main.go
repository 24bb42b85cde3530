package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/j10czar/UF-CrowdView/internal/auth"
	"github.com/j10czar/UF-CrowdView/internal/config"
	"github.com/j10czar/UF-CrowdView/internal/crowd"
	"github.com/j10czar/UF-CrowdView/internal/crowd/api"
	"github.com/j10czar/UF-CrowdView/internal/logger"
	"github.com/j10czar/UF-CrowdView/internal/models"
	"github.com/j10czar/UF-CrowdView/internal/store"
)

func connectPostgres(cfg *config.Config, log *logger.Logger) *bun.DB {
	dsn := cfg.Database.PostgresDSN()

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))
	return client
}

// bootstrapAdmin promotes (or creates) the configured admin account so a
// fresh deployment has at least one moderator.
func bootstrapAdmin(ctx context.Context, db *store.Store, authService *auth.Service, cfg *config.Config, log *logger.Logger) {
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		return
	}

	user, err := db.GetUserByEmail(ctx, cfg.Auth.AdminEmail)
	if errors.Is(err, store.ErrNotFound) {
		user, _, err = authService.Signup(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			log.Warn("AUTH", fmt.Sprintf("Admin bootstrap signup failed: %v", err))
			return
		}
	} else if err != nil {
		log.Warn("AUTH", fmt.Sprintf("Admin bootstrap lookup failed: %v", err))
		return
	}

	if !user.IsAdmin {
		if _, err := db.Bun.NewUpdate().
			Model((*models.User)(nil)).
			Set("is_admin = ?", true).
			Where("id = ?", user.ID).
			Exec(ctx); err != nil {
			log.Warn("AUTH", fmt.Sprintf("Admin bootstrap promote failed: %v", err))
			return
		}
	}
	log.Info("AUTH", fmt.Sprintf("Admin account ready: %s", user.Email))
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting UF-CrowdView API")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectPostgres(cfg, log)
	defer bunDB.Close()

	redisClient := connectRedis(ctx, cfg, log)
	defer redisClient.Close()

	if err := store.Migrate(ctx, bunDB); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}
	if cfg.Database.Seed {
		if err := store.Seed(ctx, bunDB); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Seeding failed: %v", err))
		}
		log.Info("DATABASE", "Location seed data ensured")
	}

	db := store.New(bunDB)
	sessions := auth.NewRedisSessions(redisClient, cfg.Auth.SessionTTL)
	authService := auth.NewService(db, sessions, cfg.Auth.EmailDomain, cfg.Auth.BcryptCost)
	crowdService := crowd.NewService(db)

	bootstrapAdmin(ctx, db, authService, cfg, log)

	handler := api.NewHandler(crowdService, authService, log, cfg.Auth.SessionCookie, int(cfg.Auth.SessionTTL.Seconds()))
	middleware := auth.NewMiddleware(authService, cfg.Auth.SessionCookie)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	handler.RegisterRoutes(r, middleware)

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("UF-CrowdView API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Shutdown complete")
	}
}
