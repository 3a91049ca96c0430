package router // package router defines how HTTP routes are registered for the API

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ecomove/ecomove/internal/handler"
	"github.com/ecomove/ecomove/internal/middleware"
)

// leaderboardCacheTTL bounds how stale a cached board may get.
const leaderboardCacheTTL = 15 * time.Second

// Handlers bundles every handler the route table needs.
type Handlers struct {
	Auth        *handler.AuthHandler
	Activity    *handler.ActivityHandler
	Shop        *handler.ShopHandler
	Leaderboard *handler.LeaderboardHandler
	Admin       *handler.AdminHandler
}

// Register wires the full route table onto the Echo instance. The auth
// ceremony, health check and metrics are public; everything else under
// /v1 requires a bearer token. The rate limiter applies globally and
// the leaderboard reads additionally go through the Redis response
// cache. rdb may be nil; the Redis-backed middlewares then pass
// through.
func Register(e *echo.Echo, h Handlers, tokens middleware.TokenResolver, limiter echo.MiddlewareFunc, rdb *redis.Client) {
	e.Use(limiter)

	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Begin/finish ceremony routes issue the tokens, so they cannot
	// themselves require one.
	g := e.Group("/v1/auth")
	g.POST("/register/begin", h.Auth.RegisterBegin)
	g.POST("/register/finish", h.Auth.RegisterFinish)
	g.POST("/login/begin", h.Auth.LoginBegin)
	g.POST("/login/finish", h.Auth.LoginFinish)

	v1 := e.Group("/v1")
	v1.Use(middleware.BearerAuth(tokens))

	v1.GET("/me", h.Auth.Me)

	v1.POST("/activities", h.Activity.Start)
	v1.POST("/activities/:id/stop", h.Activity.Stop)
	v1.GET("/activities", h.Activity.List)
	v1.GET("/activities/:id", h.Activity.Get)

	v1.GET("/shop", h.Shop.List)
	v1.POST("/shop/:id/purchase", h.Shop.Purchase)
	v1.PUT("/shop/equip", h.Shop.Equip)
	v1.PUT("/shop/unequip", h.Shop.Unequip)

	cache := middleware.LeaderboardCache(rdb, leaderboardCacheTTL)
	v1.GET("/leaderboard", h.Leaderboard.Get, cache)
	v1.GET("/leaderboard/friends", h.Leaderboard.Friends, cache)
	v1.POST("/friends", h.Leaderboard.AddFriend)

	// The admin key is the sole guard on the operator routes; they sit
	// outside the bearer group so an operator needs no user account.
	e.POST("/v1/admin/reset", h.Admin.Reset)
	e.POST("/v1/admin/seed", h.Admin.Seed)
}
