package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/akulikov/class_registration/internal/logging"
	"github.com/akulikov/class_registration/internal/service"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *CatalogHTTP) ListAvailable(c echo.Context) error {
	ctx := c.Request().Context()
	classes, err := h.Svc.ListAvailable(ctx, userIDFrom(c))
	if err != nil {
		logging.FromContext(ctx).Error("list_available_failed", "status", 500, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"classes": classes})
}

func (h *CatalogHTTP) ListEnrolled(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.Svc.ListEnrolled(ctx, userIDFrom(c))
	if err != nil {
		logging.FromContext(ctx).Error("list_enrolled_failed", "status", 500, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"classes": rows})
}

func (h *CatalogHTTP) ListDropped(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.Svc.ListDropped(ctx, userIDFrom(c))
	if err != nil {
		logging.FromContext(ctx).Error("list_dropped_failed", "status", 500, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"classes": rows})
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog_search")

	if !h.Svc.SearchEnabled() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}
	from := parseIntDefault(c.QueryParam("from"), 0)
	size := parseIntDefault(c.QueryParam("size"), 20)

	total, classes, err := h.Svc.Search(ctx, q, from, size)
	if err != nil {
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":   total,
		"classes": classes,
	})
}
