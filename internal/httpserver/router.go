package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akulikov/class_registration/internal/middleware"
	"github.com/akulikov/class_registration/internal/service"
)

type Deps struct {
	AuthHandler         *AuthHTTP
	RegistrationHandler *RegistrationHTTP
	CatalogHandler      *CatalogHTTP
	Tokens              *service.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/verify-mfa", d.AuthHandler.VerifyMFA)
	e.POST("/resend-mfa", d.AuthHandler.ResendMFA)
	e.POST("/refresh", d.AuthHandler.Refresh)

	authMw := middleware.NewBearerAuth(d.Tokens)

	private := e.Group("")
	private.Use(authMw.RequireAuth)

	private.POST("/logout", d.AuthHandler.Logout)

	private.GET("/available", d.CatalogHandler.ListAvailable)
	private.GET("/enrolled", d.CatalogHandler.ListEnrolled)
	private.GET("/dropped", d.CatalogHandler.ListDropped)
	private.GET("/search", d.CatalogHandler.Search)

	private.POST("/enroll", d.RegistrationHandler.Enroll)
	private.POST("/unenroll", d.RegistrationHandler.Unenroll)
}
