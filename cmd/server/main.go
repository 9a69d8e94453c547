package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinesaas/movie-booking-api/internal/config"
	"github.com/cinesaas/movie-booking-api/internal/database"
	"github.com/cinesaas/movie-booking-api/internal/handler"
	"github.com/cinesaas/movie-booking-api/internal/queue"
	"github.com/cinesaas/movie-booking-api/internal/ratelimit"
	"github.com/cinesaas/movie-booking-api/internal/repository"
	"github.com/cinesaas/movie-booking-api/internal/router"
)

func main() {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := repository.NewUserRepo(db)
	keys := repository.NewAPIKeyRepo(db)
	clients := repository.NewClientRepo(db)
	movies := repository.NewMovieRepo(db)
	categories := repository.NewCategoryRepo(db)
	orders := repository.NewOrderRepo(db)

	// Redis backs both the rate limiter and the response cache.  Without
	// it the limiter falls back to per-process memory and caching is
	// skipped.
	rdb := config.NewRedisClient()
	var limiter ratelimit.Limiter
	if rdb != nil {
		limiter = ratelimit.NewRedisLimiter(rdb, "rl")
		log.Println("rate limiter: redis backend")
	} else {
		mem := ratelimit.NewMemoryLimiter()
		mem.StartSweeper(context.Background(), rlCfg.SweepEvery, rlCfg.Window)
		limiter = mem
		log.Println("rate limiter: in-memory backend")
	}

	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterGlobal(e, cfg.JWTSecret, keys, rlCfg, limiter)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, keys))
	router.RegisterMovies(e, handler.NewMovieHandler(movies, clients), cacheCfg, rdb)
	router.RegisterCategories(e, handler.NewCategoryHandler(categories))
	router.RegisterClients(e, handler.NewClientHandler(clients))
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	router.RegisterUploads(e, handler.NewUploadHandler(repository.NewImageRepo(db), clients, uploadDir))
	router.RegisterTickets(e, handler.NewTicketHandler(orders, movies))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
