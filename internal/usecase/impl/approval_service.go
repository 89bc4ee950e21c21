package impl

import (
	"context"
	"log/slog"

	deliverycontext "academy/internal/delivery/context"
	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/domain/repository"
	"academy/internal/domain/service"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// approvalService implements the ApprovalUsecase interface.
type approvalService struct {
	txManager    repository.TransactionManager
	deviceRepo   repository.DeviceRepository
	notification service.NotificationService // Nil-safe; may be a no-op.
	logger       *slog.Logger
}

// NewApprovalService is the constructor for approvalService.
func NewApprovalService(
	txManager repository.TransactionManager,
	deviceRepo repository.DeviceRepository,
	notification service.NotificationService,
	logger *slog.Logger,
) usecase.ApprovalUsecase {
	return &approvalService{
		txManager:    txManager,
		deviceRepo:   deviceRepo,
		notification: notification,
		logger:       logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *approvalService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListRequests returns profiles awaiting a decision, newest first.
func (srv *approvalService) ListRequests(ctx context.Context) ([]*entity.Profile, error) {
	var profiles []*entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		pending := entity.StatusPending

		found, err := repoFactory.ProfileRepo().List(ctx, repository.ProfileFilter{Status: &pending})
		if err != nil {
			return errors.Wrap(err, "failed to list pending profiles")
		}
		profiles = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list registration requests", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list registration requests")
	}

	return profiles, nil
}

// Decide approves or rejects a pending registration and notifies the
// requester's registered devices.
func (srv *approvalService) Decide(ctx context.Context, profileID uuid.UUID, approve bool) error {
	status := entity.StatusRejected
	if approve {
		status = entity.StatusApproved
	}

	srv.log(ctx).Info("Deciding registration request",
		slog.Any("profile_id", profileID), slog.String("status", string(status)))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		profile, err := profileRepo.FindByID(ctx, profileID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrProfileNotFound, "registration request not found")
			}

			return errors.Wrap(err, "failed to find profile")
		}

		if profile.Status != entity.StatusPending {
			return errors.Wrap(domainerrors.ErrConflict, "registration request already decided")
		}

		if err := profileRepo.UpdateStatus(ctx, profileID, status); err != nil {
			return errors.Wrap(err, "failed to update approval status")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to decide registration request",
			slog.Any("error", err), slog.Any("profile_id", profileID))

		return errors.Wrap(err, "failed to decide registration request")
	}

	srv.notifyRequester(ctx, profileID, approve)

	return nil
}

// notifyRequester pushes the decision to the requester's devices. Push
// failures never fail the decision itself.
func (srv *approvalService) notifyRequester(ctx context.Context, profileID uuid.UUID, approved bool) {
	devices, err := srv.deviceRepo.ListByProfile(ctx, profileID)
	if err != nil {
		srv.log(ctx).Warn("Failed to load devices for decision push", slog.Any("error", err))

		return
	}
	if len(devices) == 0 {
		return
	}

	tokens := make([]string, 0, len(devices))
	for _, device := range devices {
		tokens = append(tokens, device.Token)
	}

	title := "Registration update"
	body := "Your registration request was rejected."
	decision := "rejected"
	if approved {
		body = "Your registration was approved. You can sign in now."
		decision = "approved"
	}

	_, _, invalidTokens, err := srv.notification.SendBatchNotification(ctx, tokens, title, body, map[string]string{
		"type":     "registration_decision",
		"decision": decision,
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to push decision notification", slog.Any("error", err))

		return
	}

	for _, token := range invalidTokens {
		if err := srv.deviceRepo.DeleteByToken(ctx, token); err != nil {
			srv.log(ctx).Warn("Failed to drop invalid device token", slog.Any("error", err))
		}
	}
}
