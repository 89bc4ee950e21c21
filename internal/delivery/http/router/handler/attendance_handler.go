package handler

import (
	"log/slog"
	"net/http"
	"time"

	"academy/internal/delivery/http/middleware"
	"academy/internal/delivery/http/response"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AttendanceHandler holds dependencies for attendance handlers.
type AttendanceHandler struct {
	uc     usecase.AttendanceUsecase
	logger *slog.Logger
}

// NewAttendanceHandler is the constructor for AttendanceHandler, injected by Fx.
func NewAttendanceHandler(uc usecase.AttendanceUsecase, logger *slog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		uc:     uc,
		logger: logger,
	}
}

// Mark records one lesson's attendance in bulk for the signed-in teacher.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	var input *usecase.MarkAttendanceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid attendance input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	if err := h.uc.Mark(c.Request().Context(), claims.ProfileID, input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Attendance recorded")
}

// ListGroupAttendance returns a group's attendance, optionally for one date.
func (h *AttendanceHandler) ListGroupAttendance(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	var date *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid date, expected YYYY-MM-DD")
		}
		date = &parsed
	}

	records, err := h.uc.ListGroupAttendance(c.Request().Context(), groupID, date)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, records, "")
}

// ListMyAttendance returns the signed-in student's attendance history.
func (h *AttendanceHandler) ListMyAttendance(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	records, err := h.uc.ListStudentAttendance(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, records, "")
}

// ListChildAttendance returns a linked student's attendance for the signed-in parent.
func (h *AttendanceHandler) ListChildAttendance(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	studentID, err := uuid.Parse(c.Param("studentID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid student id")
	}

	records, err := h.uc.ListChildAttendance(c.Request().Context(), claims.ProfileID, studentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, records, "")
}
