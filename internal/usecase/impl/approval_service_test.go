package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApprovalServiceForTest(store *memStore, notifier *recordingNotifier) *approvalService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewApprovalService(store, newMemDeviceRepo(store), notifier, logger).(*approvalService)
}

func TestApprovalService_ListRequests_ReturnsOnlyPending(t *testing.T) {
	store := newMemStore()
	pending := store.addProfile(entity.RoleStudent, entity.StatusPending, "Pending Student")
	store.addProfile(entity.RoleTeacher, entity.StatusApproved, "Approved Teacher")
	service := newApprovalServiceForTest(store, &recordingNotifier{})

	requests, err := service.ListRequests(context.Background())

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, pending.ID, requests[0].ID)
}

func TestApprovalService_Decide_Approve(t *testing.T) {
	store := newMemStore()
	pending := store.addProfile(entity.RoleTeacher, entity.StatusPending, "New Teacher")
	notifier := &recordingNotifier{}
	service := newApprovalServiceForTest(store, notifier)

	deviceRepo := newMemDeviceRepo(store)
	require.NoError(t, deviceRepo.Upsert(context.Background(), &entity.Device{
		ProfileID: pending.ID,
		Token:     "device-token-1",
		Platform:  "android",
	}))

	require.NoError(t, service.Decide(context.Background(), pending.ID, true))

	assert.Equal(t, entity.StatusApproved, store.profiles[pending.ID].Status)
	require.Len(t, notifier.batches, 1)
	assert.Equal(t, []string{"device-token-1"}, notifier.batches[0])
}

func TestApprovalService_Decide_Reject(t *testing.T) {
	store := newMemStore()
	pending := store.addProfile(entity.RoleParent, entity.StatusPending, "New Parent")
	service := newApprovalServiceForTest(store, &recordingNotifier{})

	require.NoError(t, service.Decide(context.Background(), pending.ID, false))

	assert.Equal(t, entity.StatusRejected, store.profiles[pending.ID].Status)
}

func TestApprovalService_Decide_AlreadyDecided(t *testing.T) {
	store := newMemStore()
	approved := store.addProfile(entity.RoleTeacher, entity.StatusApproved, "Old Teacher")
	service := newApprovalServiceForTest(store, &recordingNotifier{})

	err := service.Decide(context.Background(), approved.ID, true)

	require.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestApprovalService_Decide_UnknownProfile(t *testing.T) {
	store := newMemStore()
	service := newApprovalServiceForTest(store, &recordingNotifier{})

	err := service.Decide(context.Background(), uuid.New(), true)

	require.ErrorIs(t, err, domainerrors.ErrProfileNotFound)
}
