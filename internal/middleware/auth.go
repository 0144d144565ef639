package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/akulikov/class_registration/internal/domain"
	"github.com/akulikov/class_registration/internal/service"
	"github.com/akulikov/class_registration/internal/tokens"
)

const (
	ContextUserID      = "user_id"
	ContextUsername    = "username"
	ContextAccessToken = "access_token"
)

type BearerAuth struct {
	Tokens *service.TokenService
}

func NewBearerAuth(tokens *service.TokenService) *BearerAuth {
	return &BearerAuth{Tokens: tokens}
}

// RequireAuth rejects the request before it reaches the core when the
// carrier is missing or malformed, then verifies the access token.
func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrNoToken.Error())
		}

		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrMalformedAuthHeader.Error())
		}
		raw = strings.TrimSpace(raw)

		claims, err := m.Tokens.Verify(c.Request().Context(), raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		if claims.Type != tokens.TypeAccess {
			return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextAccessToken, raw)
		return next(c)
	}
}
