package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecomove/ecomove/internal/config"
	"github.com/ecomove/ecomove/internal/handler"
	"github.com/ecomove/ecomove/internal/middleware"
	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/utils"
)

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, _ string) (string, error) {
	return "", errors.New("unknown token")
}

type stubCatalog struct{}

func (stubCatalog) ReplaceCatalog(_ context.Context, _ []model.ShopItem) error { return nil }
func (stubCatalog) UpsertItems(_ context.Context, _ []model.ShopItem) error    { return nil }

type stubQuartiers struct{}

func (stubQuartiers) ReplaceAll(_ context.Context, _ []model.Quartier) error { return nil }
func (stubQuartiers) Upsert(_ context.Context, _ []model.Quartier) error     { return nil }

type stubEconomy struct{}

func (stubEconomy) ResetAll(_ context.Context) error                { return nil }
func (stubEconomy) EnsureDefault(_ context.Context, _ string) error { return nil }

type stubUsers struct{}

func (stubUsers) Upsert(_ context.Context, _, _ string) error { return nil }

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	hash, err := utils.HashAdminKey("letmein", bcrypt.MinCost)
	require.NoError(t, err)

	h := Handlers{
		Auth:        handler.NewAuthHandler(nil, nil, nil, nil),
		Activity:    handler.NewActivityHandler(nil, nil),
		Shop:        handler.NewShopHandler(nil),
		Leaderboard: handler.NewLeaderboardHandler(nil, nil, nil),
		Admin:       handler.NewAdminHandler(hash, stubCatalog{}, stubQuartiers{}, stubEconomy{}, stubUsers{}),
	}
	e := echo.New()
	// Disabled limiter config yields the pass-through middleware, the
	// same wiring production uses when Redis is absent.
	limiter := middleware.NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	Register(e, h, stubResolver{}, limiter, nil)
	return e
}

func TestHealthzIsPublic(t *testing.T) {
	e := newTestServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	e := newTestServer(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "bearer")
}

func TestAdminRoutesGuardedByKeyAlone(t *testing.T) {
	e := newTestServer(t)

	// The admin key is sufficient; no bearer token is required.
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/reset", nil)
	req.Header.Set("X-Admin-Key", "letmein")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// A wrong key fails on the key check, not on a missing bearer.
	req = httptest.NewRequest(http.MethodPost, "/v1/admin/reset", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "admin key")
}
