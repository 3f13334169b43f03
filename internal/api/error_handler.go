package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Code is a
// stable machine-readable discriminator; clients branch on it, not on the
// message.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{Error: msg, Code: code})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, "", fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes. Sign-in failures
	// share 401 but keep distinct machine codes.
	switch {
	case errors.Is(err, domain.ErrNoPendingChallenge):
		return http.StatusUnauthorized, "no_pending_challenge", err.Error()
	case errors.Is(err, domain.ErrInvalidNonce):
		return http.StatusUnauthorized, "invalid_nonce", err.Error()
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, "invalid_signature", err.Error()
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusUnauthorized, "invalid_address", err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"
	case errors.Is(err, domain.ErrSessionUnavailable):
		return http.StatusServiceUnavailable, "session_unavailable", "session store unavailable"

	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotJuror),
		errors.Is(err, domain.ErrNotParticipant):
		return http.StatusForbidden, "forbidden", err.Error()

	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "user not found"
	case errors.Is(err, domain.ErrDisputeNotFound):
		return http.StatusNotFound, "not_found", "dispute not found"
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "not_found", "order not found"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "not_found", "product not found"

	case errors.Is(err, domain.ErrDisputeExists):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, domain.ErrOrderConflict):
		return http.StatusConflict, "conflict", err.Error()

	case errors.Is(err, domain.ErrDisputeResolved):
		return http.StatusUnprocessableEntity, "dispute_resolved", err.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "invalid_transition", err.Error()
	case errors.Is(err, domain.ErrOrderNotCompleted):
		return http.StatusUnprocessableEntity, "order_not_completed", err.Error()

	case errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrInvalidConfidence),
		errors.Is(err, domain.ErrInvalidQuorum),
		errors.Is(err, domain.ErrJurorConflict),
		errors.Is(err, domain.ErrEmptyEvidence),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrCartSellerMismatch):
		return http.StatusBadRequest, "invalid_input", err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal", "internal server error"
}
