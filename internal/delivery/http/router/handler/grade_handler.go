package handler

import (
	"log/slog"
	"net/http"

	"academy/internal/delivery/http/middleware"
	"academy/internal/delivery/http/response"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// GradeHandler holds dependencies for gradebook handlers.
type GradeHandler struct {
	uc     usecase.GradebookUsecase
	logger *slog.Logger
}

// NewGradeHandler is the constructor for GradeHandler, injected by Fx.
func NewGradeHandler(uc usecase.GradebookUsecase, logger *slog.Logger) *GradeHandler {
	return &GradeHandler{
		uc:     uc,
		logger: logger,
	}
}

// RecordGrade stores one mark given by the signed-in teacher.
func (h *GradeHandler) RecordGrade(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	var input *usecase.RecordGradeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid grade input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	grade, err := h.uc.RecordGrade(c.Request().Context(), claims.ProfileID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, grade, "Grade recorded")
}

// ListGroupGrades returns a group's grades, newest first.
func (h *GradeHandler) ListGroupGrades(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	grades, err := h.uc.ListGroupGrades(c.Request().Context(), groupID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, grades, "")
}

// ListMyGrades returns the signed-in student's grades.
func (h *GradeHandler) ListMyGrades(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	grades, err := h.uc.ListStudentGrades(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, grades, "")
}

// ListChildGrades returns a linked student's grades for the signed-in parent.
func (h *GradeHandler) ListChildGrades(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	studentID, err := uuid.Parse(c.Param("studentID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid student id")
	}

	grades, err := h.uc.ListChildGrades(c.Request().Context(), claims.ProfileID, studentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, grades, "")
}
