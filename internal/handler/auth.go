package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ecomove/ecomove/internal/auth"
	"github.com/ecomove/ecomove/internal/model"
	"github.com/ecomove/ecomove/internal/repository"
	"github.com/ecomove/ecomove/internal/utils"
)

// SessionStore is the slice of the session repository the auth
// handlers need. The finish methods run the whole step in one
// transaction; the verify callback is invoked inside it so a failed
// credential check rolls the consumption back.
type SessionStore interface {
	Create(ctx context.Context, kind, userID, displayName, challenge string) (string, error)
	FinishRegistration(ctx context.Context, sessionID, userID, tokenHash string, verify func(challenge string) error) (string, error)
	FinishLogin(ctx context.Context, sessionID, tokenHash string, verify func(challenge string) error) (string, error)
}

// UserStore covers the user lookups the ceremony and profile need.
type UserStore interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

// EconomyStore reads the per-user gameplay snapshot.
type EconomyStore interface {
	Get(ctx context.Context, userID string) (model.EconomyState, error)
}

// AuthHandler bundles dependencies for the begin/finish ceremony
// endpoints and the authenticated profile read.
type AuthHandler struct {
	Sessions SessionStore
	Users    UserStore
	Economy  EconomyStore
	Verifier auth.Verifier
}

func NewAuthHandler(s SessionStore, u UserStore, e EconomyStore, v auth.Verifier) *AuthHandler {
	return &AuthHandler{Sessions: s, Users: u, Economy: e, Verifier: v}
}

// ----- DTOs -----

type registerBeginReq struct {
	DisplayName string `json:"display_name"`
}
type loginBeginReq struct {
	UserID string `json:"user_id"`
}
type finishReq struct {
	SessionID  string `json:"session_id"`
	Credential string `json:"credential"`
}

type beginResp struct {
	SessionID string `json:"session_id"`
	Challenge string `json:"challenge"`
}
type userPart struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
type registerFinishResp struct {
	User  userPart `json:"user"`
	Token string   `json:"token"`
}
type loginFinishResp struct {
	Token string `json:"token"`
}

// RegisterBegin creates a registration session. The requested display
// name rides on the session until the finish-step creates the user.
func (h *AuthHandler) RegisterBegin(c echo.Context) error {
	var req registerBeginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "display_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	challenge, err := utils.NewChallenge()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create challenge"})
	}
	id, err := h.Sessions.Create(ctx, model.SessionKindRegister, "", name, challenge)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	return c.JSON(http.StatusOK, beginResp{SessionID: id, Challenge: challenge})
}

// RegisterFinish verifies the credential and creates the user, its
// default economy row and a bearer token in one transaction with the
// session consumption. That consumption is the idempotency boundary:
// one session can only ever produce one user/token pair, and a wrong
// credential rolls the whole step back so the session survives for a
// corrected retry.
func (h *AuthHandler) RegisterFinish(c echo.Context) error {
	var req finishReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SessionID == "" || req.Credential == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id/credential required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	uid := uuid.NewString()
	token, err := utils.NewBearerToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	displayName, err := h.Sessions.FinishRegistration(ctx, req.SessionID, uid, utils.HashToken(token),
		func(challenge string) error {
			return h.Verifier.VerifyRegistration(challenge, req.Credential)
		})
	if err != nil {
		return finishError(c, err)
	}
	return c.JSON(http.StatusCreated, registerFinishResp{
		User:  userPart{ID: uid, DisplayName: displayName},
		Token: token,
	})
}

// LoginBegin creates a login session for an existing user.
func (h *AuthHandler) LoginBegin(c echo.Context) error {
	var req loginBeginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.UserID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	challenge, err := utils.NewChallenge()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create challenge"})
	}
	id, err := h.Sessions.Create(ctx, model.SessionKindLogin, req.UserID, "", challenge)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	return c.JSON(http.StatusOK, beginResp{SessionID: id, Challenge: challenge})
}

// LoginFinish consumes a login session and issues a fresh bearer
// token, both in one transaction. Prior tokens stay valid; each login
// is another device.
func (h *AuthHandler) LoginFinish(c echo.Context) error {
	var req finishReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SessionID == "" || req.Credential == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id/credential required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	token, err := utils.NewBearerToken()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	if _, err := h.Sessions.FinishLogin(ctx, req.SessionID, utils.HashToken(token),
		func(challenge string) error {
			return h.Verifier.VerifyLogin(challenge, req.Credential)
		}); err != nil {
		return finishError(c, err)
	}
	return c.JSON(http.StatusOK, loginFinishResp{Token: token})
}

// Me returns the caller's profile plus the economy snapshot.
func (h *AuthHandler) Me(c echo.Context) error {
	uid := userID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	eco, err := h.Economy.Get(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":    userPart{ID: u.ID, DisplayName: u.DisplayName},
		"economy": economyPart(eco),
	})
}

func finishError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrInvalidSession):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
	case errors.Is(err, repository.ErrSessionExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
	case errors.Is(err, auth.ErrCredentialMismatch):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credential"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not finish session"})
	}
}
