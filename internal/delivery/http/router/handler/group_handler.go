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

// GroupHandler holds dependencies for subject, group and enrollment handlers.
type GroupHandler struct {
	uc     usecase.GroupUsecase
	logger *slog.Logger
}

// NewGroupHandler is the constructor for GroupHandler, injected by Fx.
func NewGroupHandler(uc usecase.GroupUsecase, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{
		uc:     uc,
		logger: logger,
	}
}

type createSubjectInput struct {
	Name string `json:"name" validate:"required"`
}

// CreateSubject adds a subject to the catalogue.
func (h *GroupHandler) CreateSubject(c echo.Context) error {
	var input *createSubjectInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid subject input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	subject, err := h.uc.CreateSubject(c.Request().Context(), input.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, subject, "Subject created")
}

// ListSubjects returns the subject catalogue.
func (h *GroupHandler) ListSubjects(c echo.Context) error {
	subjects, err := h.uc.ListSubjects(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, subjects, "")
}

// DeleteSubject removes a subject from the catalogue.
func (h *GroupHandler) DeleteSubject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid subject id")
	}

	if err := h.uc.DeleteSubject(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Subject deleted")
}

// CreateGroup creates a class group.
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var input *usecase.SaveGroupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid group input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	group, err := h.uc.CreateGroup(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, group, "Group created")
}

// UpdateGroup replaces a group's settings.
func (h *GroupHandler) UpdateGroup(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	var input *usecase.SaveGroupInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid group input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	group, err := h.uc.UpdateGroup(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, group, "Group updated")
}

// DeleteGroup removes a group and its enrollments.
func (h *GroupHandler) DeleteGroup(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	if err := h.uc.DeleteGroup(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Group deleted")
}

// GetGroup returns one group with its subject and teacher.
func (h *GroupHandler) GetGroup(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	group, err := h.uc.GetGroup(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, group, "")
}

// ListGroups returns every group.
func (h *GroupHandler) ListGroups(c echo.Context) error {
	groups, err := h.uc.ListGroups(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, groups, "")
}

// ListMyGroups returns the signed-in teacher's groups.
func (h *GroupHandler) ListMyGroups(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	groups, err := h.uc.ListTeacherGroups(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, groups, "")
}

// ListMyEnrolledGroups returns the signed-in student's groups.
func (h *GroupHandler) ListMyEnrolledGroups(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	groups, err := h.uc.ListStudentGroups(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, groups, "")
}

// Enroll places a student in a group.
func (h *GroupHandler) Enroll(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}
	studentID, err := uuid.Parse(c.Param("studentID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid student id")
	}

	if err := h.uc.Enroll(c.Request().Context(), groupID, studentID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, nil, "Student enrolled")
}

// Unenroll removes a student from a group.
func (h *GroupHandler) Unenroll(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}
	studentID, err := uuid.Parse(c.Param("studentID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid student id")
	}

	if err := h.uc.Unenroll(c.Request().Context(), groupID, studentID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Student removed from group")
}

// ListGroupStudents returns the students enrolled in a group.
func (h *GroupHandler) ListGroupStudents(c echo.Context) error {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid group id")
	}

	students, err := h.uc.ListGroupStudents(c.Request().Context(), groupID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, students, "")
}
