package handler

import (
	"log/slog"
	"net/http"

	"academy/internal/delivery/http/middleware"
	"academy/internal/delivery/http/response"
	"academy/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DashboardHandler holds dependencies for the landing-view handlers.
type DashboardHandler struct {
	uc     usecase.DashboardUsecase
	logger *slog.Logger
}

// NewDashboardHandler is the constructor for DashboardHandler, injected by Fx.
func NewDashboardHandler(uc usecase.DashboardUsecase, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		uc:     uc,
		logger: logger,
	}
}

// Owner returns the academy-wide headline numbers.
func (h *DashboardHandler) Owner(c echo.Context) error {
	dashboard, err := h.uc.Owner(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "")
}

// Teacher returns the signed-in teacher's landing view.
func (h *DashboardHandler) Teacher(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	dashboard, err := h.uc.Teacher(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "")
}

// Student returns the signed-in student's landing view.
func (h *DashboardHandler) Student(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	dashboard, err := h.uc.Student(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "")
}

// Parent returns the signed-in parent's landing view.
func (h *DashboardHandler) Parent(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	dashboard, err := h.uc.Parent(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "")
}
