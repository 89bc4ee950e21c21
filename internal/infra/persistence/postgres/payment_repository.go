package postgres

import (
	"context"

	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/domain/repository"
	"academy/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// paymentRepository implements repository.PaymentRepository using GORM.
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository is the constructor for paymentRepository.
func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

// Create persists a new payment charge.
func (repo *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentM := fromPaymentDomain(payment)

	if err := repo.db.WithContext(ctx).Create(paymentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("charge already exists for this month")
		}

		return errors.Wrap(err, "failed to create payment")
	}

	payment.ID = paymentM.ID
	payment.CreatedAt = paymentM.CreatedAt
	payment.UpdatedAt = paymentM.UpdatedAt

	return nil
}

// FindByID retrieves a payment by ID.
func (repo *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var paymentM model.PaymentModel
	if err := repo.db.WithContext(ctx).Preload("Student").First(&paymentM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPaymentNotFound
		}

		return nil, errors.Wrap(err, "failed to find payment by id")
	}

	return toPaymentDomain(&paymentM), nil
}

// List returns payments matching the filter with student preloaded.
func (repo *paymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error) {
	query := repo.db.WithContext(ctx).Preload("Student")
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Month != "" {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var paymentMs []*model.PaymentModel
	if err := query.Order("month DESC, created_at DESC").Find(&paymentMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}

	payments := make([]*entity.Payment, 0, len(paymentMs))
	for _, paymentM := range paymentMs {
		payments = append(payments, toPaymentDomain(paymentM))
	}

	return payments, nil
}

// Update persists status and settlement changes.
func (repo *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	paymentM := fromPaymentDomain(payment)

	if err := repo.db.WithContext(ctx).Save(paymentM).Error; err != nil {
		return errors.Wrap(err, "failed to update payment")
	}

	payment.UpdatedAt = paymentM.UpdatedAt

	return nil
}

// SumByMonth returns the total settled amount for a billing month.
func (repo *paymentRepository) SumByMonth(ctx context.Context, month string) (int64, error) {
	var sum *int64
	err := repo.db.WithContext(ctx).
		Model(&model.PaymentModel{}).
		Select("SUM(amount)").
		Where("month = ? AND status = ?", month, string(entity.PaymentPaid)).
		Scan(&sum).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to sum payments by month")
	}
	if sum == nil {
		return 0, nil
	}

	return *sum, nil
}

func toPaymentDomain(data *model.PaymentModel) *entity.Payment {
	if data == nil {
		return nil
	}

	return &entity.Payment{
		ID:        data.ID,
		StudentID: data.StudentID,
		Amount:    data.Amount,
		Month:     data.Month,
		Status:    entity.PaymentStatus(data.Status),
		PaidAt:    data.PaidAt,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
		Student:   toProfileDomain(data.Student),
	}
}

func fromPaymentDomain(data *entity.Payment) *model.PaymentModel {
	return &model.PaymentModel{
		ID:        data.ID,
		StudentID: data.StudentID,
		Amount:    data.Amount,
		Month:     data.Month,
		Status:    string(data.Status),
		PaidAt:    data.PaidAt,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
