package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/arbitex/marketplace/internal/core/ports"
	"github.com/arbitex/marketplace/internal/infrastructure/session"
)

// Auth authenticates the request and injects the caller identity into the
// echo context as "user_id" and "role". A Bearer JWT is checked first; absent
// that, the sealed session cookie is resolved against the session store.
func Auth(jwtSecret, cookieName string, codec *session.Codec, auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if header := c.Request().Header.Get("Authorization"); header != "" {
				userID, role, err := claimsFromBearer(header, jwtSecret)
				if err != nil {
					return err
				}
				c.Set("user_id", userID)
				c.Set("role", role)
				return next(c)
			}

			cookie, err := c.Cookie(cookieName)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			sessionID, err := codec.Open(cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session cookie")
			}
			user, err := auth.Resolve(c.Request().Context(), sessionID)
			if err != nil {
				return err
			}

			c.Set("user_id", user.ID)
			c.Set("role", user.Role)
			c.Set("session_id", sessionID)
			return next(c)
		}
	}
}

func claimsFromBearer(header, jwtSecret string) (userID, role string, err error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	userID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}
	return userID, role, nil
}
