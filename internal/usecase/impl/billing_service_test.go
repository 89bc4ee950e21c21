package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBillingServiceForTest(store *memStore) usecase.BillingUsecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewBillingService(store, newMemPaymentRepo(store), logger)
}

func TestBillingService_ChargeAndMarkPaid(t *testing.T) {
	store := newMemStore()
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	service := newBillingServiceForTest(store)

	payment, err := service.Charge(context.Background(), &usecase.ChargeInput{
		StudentID: student.ID,
		Amount:    150000,
		Month:     "2026-09",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPending, payment.Status)
	assert.Nil(t, payment.PaidAt)

	settled, err := service.MarkPaid(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentPaid, settled.Status)
	require.NotNil(t, settled.PaidAt)
	assert.WithinDuration(t, time.Now(), *settled.PaidAt, time.Minute)
}

func TestBillingService_Charge_BadMonthFormat(t *testing.T) {
	store := newMemStore()
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	service := newBillingServiceForTest(store)

	_, err := service.Charge(context.Background(), &usecase.ChargeInput{
		StudentID: student.ID,
		Amount:    100,
		Month:     "September 2026",
	})

	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestBillingService_Charge_RejectsNonStudent(t *testing.T) {
	store := newMemStore()
	teacher := store.addProfile(entity.RoleTeacher, entity.StatusApproved, "A Teacher")
	service := newBillingServiceForTest(store)

	_, err := service.Charge(context.Background(), &usecase.ChargeInput{
		StudentID: teacher.ID,
		Amount:    100,
		Month:     "2026-09",
	})

	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestBillingService_MarkPaid_Twice(t *testing.T) {
	store := newMemStore()
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	service := newBillingServiceForTest(store)

	payment, err := service.Charge(context.Background(), &usecase.ChargeInput{
		StudentID: student.ID,
		Amount:    100,
		Month:     "2026-09",
	})
	require.NoError(t, err)

	_, err = service.MarkPaid(context.Background(), payment.ID)
	require.NoError(t, err)

	_, err = service.MarkPaid(context.Background(), payment.ID)
	require.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestBillingService_ListChildPayments_RequiresLink(t *testing.T) {
	store := newMemStore()
	parent := store.addProfile(entity.RoleParent, entity.StatusApproved, "A Parent")
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	service := newBillingServiceForTest(store)

	_, err := service.ListChildPayments(context.Background(), parent.ID, student.ID)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
}
