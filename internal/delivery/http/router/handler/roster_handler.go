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

// RosterHandler holds dependencies for people-management handlers.
type RosterHandler struct {
	uc     usecase.RosterUsecase
	logger *slog.Logger
}

// NewRosterHandler is the constructor for RosterHandler, injected by Fx.
func NewRosterHandler(uc usecase.RosterUsecase, logger *slog.Logger) *RosterHandler {
	return &RosterHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListProfiles returns approved profiles filtered by role or search text.
func (h *RosterHandler) ListProfiles(c echo.Context) error {
	var input *usecase.ListProfilesInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}

	profiles, err := h.uc.ListProfiles(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profiles, "")
}

// GetProfile returns one profile by id.
func (h *RosterHandler) GetProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid profile id")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "")
}

// UpdateProfile patches an arbitrary profile's editable fields.
func (h *RosterHandler) UpdateProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid profile id")
	}

	return h.updateProfile(c, id)
}

// DeactivateProfile revokes an approved account.
func (h *RosterHandler) DeactivateProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid profile id")
	}

	if err := h.uc.DeactivateProfile(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Profile deactivated")
}

// GetMyProfile returns the signed-in account's profile.
func (h *RosterHandler) GetMyProfile(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	profile, err := h.uc.GetProfile(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "")
}

// UpdateMyProfile patches the signed-in account's editable fields.
func (h *RosterHandler) UpdateMyProfile(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	return h.updateProfile(c, claims.ProfileID)
}

func (h *RosterHandler) updateProfile(c echo.Context, id uuid.UUID) error {
	var input *usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	profile, err := h.uc.UpdateProfile(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile updated")
}

type linkGuardianInput struct {
	StudentCode string `json:"student_code" validate:"required"`
}

// LinkGuardian connects the signed-in parent to the student carrying the code.
func (h *RosterHandler) LinkGuardian(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	var input *linkGuardianInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid link input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	link, err := h.uc.LinkGuardian(c.Request().Context(), claims.ProfileID, input.StudentCode)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, link, "Student linked")
}

// ListChildren returns the students linked to the signed-in parent.
func (h *RosterHandler) ListChildren(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	children, err := h.uc.ListChildren(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, children, "")
}

// RegisterDevice stores a push token for the signed-in account.
func (h *RosterHandler) RegisterDevice(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	var input *usecase.RegisterDeviceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	if err := h.uc.RegisterDevice(c.Request().Context(), claims.ProfileID, input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Device registered")
}
