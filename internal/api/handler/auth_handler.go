package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
	"github.com/arbitex/marketplace/internal/infrastructure/session"
)

// AuthHandler exposes the wallet sign-in protocol over HTTP. The session id
// travels only inside the sealed cookie; request bodies never carry it.
type AuthHandler struct {
	service    ports.AuthService
	codec      *session.Codec
	cookieName string
	cookieTTL  time.Duration
	secure     bool
}

func NewAuthHandler(service ports.AuthService, codec *session.Codec, cookieName string, cookieTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{
		service:    service,
		codec:      codec,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
		secure:     secure,
	}
}

// --- Request / Response types ---

type challengeRequest struct {
	Address string `json:"address"`
}

type challengeResponse struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

type loginRequest struct {
	Address   string `json:"address" validate:"required,hexadecimal"`
	Message   string `json:"message" validate:"required"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Challenge handles POST /auth/challenge.
//
// @Summary      Request a sign-in nonce challenge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      challengeRequest  false  "Wallet address (rendered into the message, not trusted)"
// @Success      200   {object}  challengeResponse
// @Failure      503   {object}  map[string]string
// @Router       /auth/challenge [post]
func (h *AuthHandler) Challenge(c echo.Context) error {
	var req challengeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.BeginSignIn(c.Request().Context(), h.sessionID(c), req.Address)
	if err != nil {
		return err
	}
	if err := h.setSessionCookie(c, result.SessionID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, challengeResponse{
		Nonce:   result.Nonce,
		Message: result.Message,
	})
}

// Login handles POST /auth/login.
//
// @Summary      Complete sign-in with a signed challenge
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Signed challenge"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sessionID := h.sessionID(c)
	if sessionID == "" {
		return domain.ErrNoPendingChallenge
	}

	result, err := h.service.CompleteSignIn(c.Request().Context(), sessionID, req.Address, req.Message, req.Signature)
	if err != nil {
		return err
	}
	if err := h.setSessionCookie(c, result.SessionID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sessionID := h.sessionID(c); sessionID != "" {
		if err := h.service.SignOut(c.Request().Context(), sessionID); err != nil {
			return err
		}
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /api/v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}
	// Prefer the live session identity; bearer-only callers fall back to the
	// JWT subject.
	if sessionID, _ := c.Get("session_id").(string); sessionID != "" {
		user, err := h.service.Resolve(c.Request().Context(), sessionID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, user)
	}
	role, _ := c.Get("role").(string)
	return c.JSON(http.StatusOK, map[string]string{"id": userID, "role": role})
}

// sessionID unseals the cookie, treating an absent or invalid cookie as no
// session.
func (h *AuthHandler) sessionID(c echo.Context) string {
	cookie, err := c.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	id, err := h.codec.Open(cookie.Value)
	if err != nil {
		return ""
	}
	return id
}

func (h *AuthHandler) setSessionCookie(c echo.Context, sessionID string) error {
	sealed, err := h.codec.Seal(sessionID)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
