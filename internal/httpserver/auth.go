package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akulikov/class_registration/internal/logging"
	"github.com/akulikov/class_registration/internal/middleware"
	"github.com/akulikov/class_registration/internal/service"
	"github.com/akulikov/class_registration/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func pairResponse(p *service.Pair) transport.TokenPairResponse {
	return transport.TokenPairResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		AccessExp:    p.AccessExp,
		RefreshExp:   p.RefreshExp,
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	_, pair, err := h.Svc.Register(ctx, req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, pairResponse(pair))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	if res.MFARequired {
		return c.JSON(http.StatusOK, transport.MFAPendingResponse{
			MFARequired: true,
			UserID:      res.UserID,
			ExpiresAt:   res.CodeExpires,
		})
	}
	return c.JSON(http.StatusOK, pairResponse(res.Pair))
}

func (h *AuthHTTP) VerifyMFA(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_verify_mfa")

	var req transport.VerifyMFARequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_mfa_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.VerifyMFA(ctx, req.UserID, req.Code)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, pairResponse(pair))
}

func (h *AuthHTTP) ResendMFA(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_resend_mfa")

	var req transport.ResendMFARequest
	if err := c.Bind(&req); err != nil {
		l.Warn("resend_mfa_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	_, exp, err := h.Svc.ResendMFA(ctx, req.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, transport.MFAPendingResponse{
		MFARequired: true,
		UserID:      req.UserID,
		ExpiresAt:   exp,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, pairResponse(pair))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	raw, _ := c.Get(middleware.ContextAccessToken).(string)
	if err := h.Svc.Logout(ctx, raw); err != nil {
		return toHTTPError(err)
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
