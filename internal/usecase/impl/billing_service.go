package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "academy/internal/delivery/context"
	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/domain/repository"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// billingService implements the BillingUsecase interface.
type billingService struct {
	txManager   repository.TransactionManager
	paymentRepo repository.PaymentRepository
	logger      *slog.Logger
}

// NewBillingService is the constructor for billingService.
func NewBillingService(
	txManager repository.TransactionManager,
	paymentRepo repository.PaymentRepository,
	logger *slog.Logger,
) usecase.BillingUsecase {
	return &billingService{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *billingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Charge creates one monthly tuition charge for a student.
func (srv *billingService) Charge(ctx context.Context, input *usecase.ChargeInput) (*entity.Payment, error) {
	if _, err := time.Parse("2006-01", input.Month); err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "month must be formatted as YYYY-MM")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		student, err := repoFactory.ProfileRepo().FindByID(ctx, input.StudentID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrProfileNotFound, "student profile not found")
			}

			return errors.Wrap(err, "failed to find student")
		}
		if student.Role != entity.RoleStudent {
			return errors.Wrap(domainerrors.ErrValidationFailed, "profile is not a student")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to validate charge", slog.Any("error", err), slog.Any("student_id", input.StudentID))

		return nil, errors.Wrap(err, "failed to create charge")
	}

	payment := &entity.Payment{
		StudentID: input.StudentID,
		Amount:    input.Amount,
		Month:     input.Month,
		Status:    entity.PaymentPending,
	}
	if err := srv.paymentRepo.Create(ctx, payment); err != nil {
		srv.log(ctx).Error("Failed to store charge", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create charge")
	}

	srv.log(ctx).Info("Charge created",
		slog.Any("student_id", input.StudentID), slog.String("month", input.Month), slog.Int64("amount", input.Amount))

	return payment, nil
}

// MarkPaid settles a payment.
func (srv *billingService) MarkPaid(ctx context.Context, paymentID uuid.UUID) (*entity.Payment, error) {
	payment, err := srv.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPaymentNotFound, "payment not found")
		}

		return nil, errors.Wrap(err, "failed to find payment")
	}

	if payment.Status == entity.PaymentPaid {
		return nil, errors.Wrap(domainerrors.ErrConflict, "payment is already settled")
	}

	now := time.Now()
	payment.Status = entity.PaymentPaid
	payment.PaidAt = &now

	if err := srv.paymentRepo.Update(ctx, payment); err != nil {
		srv.log(ctx).Error("Failed to settle payment", slog.Any("error", err), slog.Any("payment_id", paymentID))

		return nil, errors.Wrap(err, "failed to settle payment")
	}

	return payment, nil
}

// ListPayments returns payments matching the filter.
func (srv *billingService) ListPayments(ctx context.Context, input *usecase.ListPaymentsInput) ([]*entity.Payment, error) {
	payments, err := srv.paymentRepo.List(ctx, repository.PaymentFilter{
		StudentID: input.StudentID,
		Month:     input.Month,
		Status:    input.Status,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}

	return payments, nil
}

// ListStudentPayments returns a student's own payments.
func (srv *billingService) ListStudentPayments(ctx context.Context, studentID uuid.UUID) ([]*entity.Payment, error) {
	payments, err := srv.paymentRepo.List(ctx, repository.PaymentFilter{StudentID: &studentID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list student payments")
	}

	return payments, nil
}

// ListChildPayments returns a linked student's payments for a parent.
func (srv *billingService) ListChildPayments(ctx context.Context, parentID, studentID uuid.UUID) ([]*entity.Payment, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		linked, err := repoFactory.GuardianRepo().Linked(ctx, parentID, studentID)
		if err != nil {
			return errors.Wrap(err, "failed to check guardian link")
		}
		if !linked {
			return errors.Wrap(domainerrors.ErrForbidden, "student is not linked to this parent")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "guardian check failed")
	}

	return srv.ListStudentPayments(ctx, studentID)
}
