package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/auth"
	"github.com/ecomove/ecomove/internal/config"
	"github.com/ecomove/ecomove/internal/database"
	"github.com/ecomove/ecomove/internal/handler"
	"github.com/ecomove/ecomove/internal/middleware"
	"github.com/ecomove/ecomove/internal/queue"
	"github.com/ecomove/ecomove/internal/repository"
	"github.com/ecomove/ecomove/internal/router"
	queuepublisher "github.com/ecomove/ecomove/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Bootstrap(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil when Redis is unavailable
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and leaderboard cache disabled")
	}

	// Background consumer mirrors stop events into the activity log.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	tokens := repository.NewTokenRepo(db)
	economy := repository.NewEconomyRepo(db)
	activities := repository.NewActivityRepo(db)
	shop := repository.NewShopRepo(db)
	quartiers := repository.NewQuartierRepo(db)
	leaderboard := repository.NewLeaderboardRepo(db)
	friends := repository.NewFriendRepo(db)

	verifier := auth.New(cfg.VerifierMode, cfg.AuthSecret)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(sessions, users, economy, verifier),
		Activity:    handler.NewActivityHandler(activities, queuepublisher.PublishActivityStopped),
		Shop:        handler.NewShopHandler(shop),
		Leaderboard: handler.NewLeaderboardHandler(leaderboard, quartiers, friends),
		Admin:       handler.NewAdminHandler(cfg.AdminKeyHash, shop, quartiers, economy, users),
	}

	e := echo.New()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.Register(e, h, tokens, limiter, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
