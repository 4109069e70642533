package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/savora/recipedigest/internal/api"
	"github.com/savora/recipedigest/internal/config"
	"github.com/savora/recipedigest/internal/mailing"
	"github.com/savora/recipedigest/internal/repository/postgres"
	"github.com/savora/recipedigest/internal/service/digest"
	"github.com/savora/recipedigest/internal/worker"
)

func main() {
	log.Println("Starting Savora digest worker...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Database connection (read-only view of the recipe application's store)
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Redis is optional: run locking falls back to PG advisory locks and
	// the unchanged-digest skip stays off without it.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: Redis unreachable (%v), falling back to PG advisory locks", err)
			redisClient = nil
		} else {
			log.Println("Connected to Redis")
		}
	}

	sender, err := mailing.NewSESSender(context.Background(), cfg.SES, cfg.Digest.FromName, cfg.Digest.FromEmail)
	if err != nil {
		log.Fatalf("Failed to initialize SES sender: %v", err)
	}
	log.Println("SES sender initialized")

	userRepo := postgres.NewUserRepo(db)
	recipeRepo := postgres.NewRecipeRepo(db)

	dispatcher := digest.NewDispatcher(
		userRepo,
		digest.NewAggregator(recipeRepo),
		sender,
		digest.DispatcherConfig{
			Subject:       cfg.Digest.Subject,
			FromName:      cfg.Digest.FromName,
			FromEmail:     cfg.Digest.FromEmail,
			SendTimeout:   cfg.SES.Timeout(),
			SkipUnchanged: cfg.Digest.SkipUnchanged,
		},
	)
	dispatcher.SetHTMLRenderer(mailing.NewTemplateRenderer())
	if cfg.Digest.SkipUnchanged && redisClient != nil {
		dispatcher.SetDedupStore(worker.NewRedisDedupStore(redisClient))
	}

	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone: %v", err)
	}

	scheduler := worker.NewDigestScheduler(dispatcher, db, cfg.Digest.Hour, cfg.Digest.Minute, loc)
	if redisClient != nil {
		scheduler.SetRedisClient(redisClient)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	log.Printf("Digest scheduler started (daily at %02d:%02d %s)", cfg.Digest.Hour, cfg.Digest.Minute, cfg.Digest.Timezone)

	opsServer := api.NewServer(cfg.Server, scheduler)
	if err := opsServer.Start(); err != nil {
		log.Fatalf("Failed to start ops server: %v", err)
	}
	log.Printf("Ops endpoint listening on %s", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down digest worker...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ops server shutdown error: %v", err)
	}

	scheduler.Stop()

	if redisClient != nil {
		redisClient.Close()
	}

	log.Println("Digest worker stopped")
}
