package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akulikov/class_registration/internal/logging"
	"github.com/akulikov/class_registration/internal/middleware"
	"github.com/akulikov/class_registration/internal/service"
	"github.com/akulikov/class_registration/internal/transport"
)

type RegistrationHTTP struct {
	Svc *service.RegistrationService
}

func userIDFrom(c echo.Context) uint64 {
	id, _ := c.Get(middleware.ContextUserID).(uint64)
	return id
}

func (h *RegistrationHTTP) Enroll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "enroll")

	var req transport.EnrollRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("enroll_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	outcome, err := h.Svc.Enroll(ctx, req.ClassID, userIDFrom(c))
	if err != nil {
		return toHTTPError(err)
	}

	// fresh enrollment and re-enrollment produce distinct messages,
	// clients branch on the wording
	if outcome == service.OutcomeReEnrolled {
		return c.JSON(http.StatusOK, transport.RegistrationResponse{
			Status:  "success",
			Message: "re-enrolled in " + req.ClassID,
			ClassID: req.ClassID,
		})
	}
	return c.JSON(http.StatusCreated, transport.RegistrationResponse{
		Status:  "success",
		Message: "enrolled in " + req.ClassID,
		ClassID: req.ClassID,
	})
}

func (h *RegistrationHTTP) Unenroll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "unenroll")

	var req transport.EnrollRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("unenroll_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Unenroll(ctx, req.ClassID, userIDFrom(c)); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, transport.RegistrationResponse{
		Status:  "success",
		Message: "dropped " + req.ClassID,
		ClassID: req.ClassID,
	})
}
