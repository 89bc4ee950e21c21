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

// PaymentHandler holds dependencies for tuition billing handlers.
type PaymentHandler struct {
	uc     usecase.BillingUsecase
	logger *slog.Logger
}

// NewPaymentHandler is the constructor for PaymentHandler, injected by Fx.
func NewPaymentHandler(uc usecase.BillingUsecase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		uc:     uc,
		logger: logger,
	}
}

// Charge creates one monthly tuition charge.
func (h *PaymentHandler) Charge(c echo.Context) error {
	var input *usecase.ChargeInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid charge input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	payment, err := h.uc.Charge(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, payment, "Charge created")
}

// MarkPaid settles one payment.
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid payment id")
	}

	payment, err := h.uc.MarkPaid(c.Request().Context(), paymentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payment, "Payment settled")
}

// ListPayments returns payments filtered by student, month or status.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	var input *usecase.ListPaymentsInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}

	payments, err := h.uc.ListPayments(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payments, "")
}

// ListMyPayments returns the signed-in student's charges.
func (h *PaymentHandler) ListMyPayments(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	payments, err := h.uc.ListStudentPayments(c.Request().Context(), claims.ProfileID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payments, "")
}

// ListChildPayments returns a linked student's charges for the signed-in parent.
func (h *PaymentHandler) ListChildPayments(c echo.Context) error {
	claims := middleware.CurrentClaims(c)

	studentID, err := uuid.Parse(c.Param("studentID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid student id")
	}

	payments, err := h.uc.ListChildPayments(c.Request().Context(), claims.ProfileID, studentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, payments, "")
}
