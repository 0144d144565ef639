package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akulikov/class_registration/internal/domain"
)

// toHTTPError maps the domain taxonomy onto HTTP statuses. Messages
// never carry hashes or token material.
func toHTTPError(err error) *echo.HTTPError {
	var (
		notFound    *domain.NotFoundError
		conflict    *domain.ConflictError
		invalidCode *domain.InvalidCodeError
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &invalidCode):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrChallengeLocked):
		return echo.NewHTTPError(http.StatusLocked, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenRevoked),
		errors.Is(err, domain.ErrNoToken),
		errors.Is(err, domain.ErrMalformedAuthHeader),
		errors.Is(err, domain.ErrChallengeExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
