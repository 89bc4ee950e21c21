package handler

import (
	"log/slog"
	"net/http"

	"academy/internal/delivery/http/response"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ApprovalHandler holds dependencies for the registration-approval handlers.
type ApprovalHandler struct {
	uc     usecase.ApprovalUsecase
	logger *slog.Logger
}

// NewApprovalHandler is the constructor for ApprovalHandler, injected by Fx.
func NewApprovalHandler(uc usecase.ApprovalUsecase, logger *slog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListRequests returns the registrations awaiting a decision.
func (h *ApprovalHandler) ListRequests(c echo.Context) error {
	requests, err := h.uc.ListRequests(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, requests, "")
}

type decideInput struct {
	Approve bool `json:"approve"`
}

// Decide approves or rejects one pending registration.
func (h *ApprovalHandler) Decide(c echo.Context) error {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid profile id")
	}

	var input *decideInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid decision input")
	}

	if err := h.uc.Decide(c.Request().Context(), profileID, input.Approve); err != nil {
		return errors.WithStack(err)
	}

	message := "Registration rejected"
	if input.Approve {
		message = "Registration approved"
	}

	return response.Success(c, http.StatusOK, nil, message)
}
