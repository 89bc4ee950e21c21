package impl

import (
	"context"
	"log/slog"

	deliverycontext "academy/internal/delivery/context"
	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/domain/repository"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// rosterService implements the RosterUsecase interface.
type rosterService struct {
	txManager  repository.TransactionManager
	deviceRepo repository.DeviceRepository
	logger     *slog.Logger
}

// NewRosterService is the constructor for rosterService.
func NewRosterService(
	txManager repository.TransactionManager,
	deviceRepo repository.DeviceRepository,
	logger *slog.Logger,
) usecase.RosterUsecase {
	return &rosterService{
		txManager:  txManager,
		deviceRepo: deviceRepo,
		logger:     logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *rosterService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProfiles returns approved profiles matching the role and search filter.
func (srv *rosterService) ListProfiles(ctx context.Context, input *usecase.ListProfilesInput) ([]*entity.Profile, error) {
	var profiles []*entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		filter := repository.ProfileFilter{Search: input.Search}
		if input.Role.IsValid() {
			filter.Role = &input.Role
		}
		approved := entity.StatusApproved
		filter.Status = &approved

		found, err := repoFactory.ProfileRepo().List(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "failed to list profiles")
		}
		profiles = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list profiles", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list profiles")
	}

	return profiles, nil
}

// GetProfile retrieves one profile by ID.
func (srv *rosterService) GetProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.ProfileRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrProfileNotFound, "profile not found")
			}

			return errors.Wrap(err, "failed to find profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return profile, nil
}

// UpdateProfile persists the editable profile fields.
func (srv *rosterService) UpdateProfile(ctx context.Context, id uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	var profile *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		found, err := profileRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrProfileNotFound, "profile not found")
			}

			return errors.Wrap(err, "failed to find profile")
		}

		if input.FirstName != "" {
			found.FirstName = input.FirstName
		}
		if input.LastName != "" {
			found.LastName = input.LastName
		}
		if input.Phone != "" {
			found.Phone = input.Phone
		}

		if err := profileRepo.Update(ctx, found); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}
		profile = found

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("error", err), slog.Any("profile_id", id))

		return nil, errors.Wrap(err, "failed to update profile")
	}

	return profile, nil
}

// DeactivateProfile revokes an approved account by moving it to the rejected
// status. An owner account cannot be deactivated.
func (srv *rosterService) DeactivateProfile(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		found, err := profileRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrProfileNotFound, "profile not found")
			}

			return errors.Wrap(err, "failed to find profile")
		}

		if found.Role == entity.RoleOwner {
			return errors.Wrap(domainerrors.ErrForbidden, "owner accounts cannot be deactivated")
		}

		if err := profileRepo.UpdateStatus(ctx, id, entity.StatusRejected); err != nil {
			return errors.Wrap(err, "failed to update profile status")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to deactivate profile", slog.Any("error", err), slog.Any("profile_id", id))

		return errors.Wrap(err, "failed to deactivate profile")
	}

	srv.log(ctx).Info("Profile deactivated", slog.Any("profile_id", id))

	return nil
}

// LinkGuardian connects a parent to the student carrying the given code.
func (srv *rosterService) LinkGuardian(ctx context.Context, parentID uuid.UUID, studentCode string) (*entity.GuardianLink, error) {
	srv.log(ctx).Debug("Linking guardian", slog.Any("parent_id", parentID))

	var link *entity.GuardianLink

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()
		guardianRepo := repoFactory.GuardianRepo()

		student, err := profileRepo.FindByStudentCode(ctx, studentCode)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrStudentCodeUnknown, "no student carries this code")
			}

			return errors.Wrap(err, "failed to find student by code")
		}

		linked, err := guardianRepo.Linked(ctx, parentID, student.ID)
		if err != nil {
			return errors.Wrap(err, "failed to check existing link")
		}
		if linked {
			return errors.Wrap(domainerrors.ErrConflict, "parent is already linked to this student")
		}

		link = &entity.GuardianLink{
			ParentID:  parentID,
			StudentID: student.ID,
			Student:   student,
		}
		if err := guardianRepo.CreateLink(ctx, link); err != nil {
			return errors.Wrap(err, "failed to create guardian link")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to link guardian", slog.Any("error", err), slog.Any("parent_id", parentID))

		return nil, errors.Wrap(err, "failed to link guardian")
	}

	return link, nil
}

// ListChildren returns the students linked to a parent.
func (srv *rosterService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*entity.Profile, error) {
	var children []*entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		links, err := repoFactory.GuardianRepo().ListByParent(ctx, parentID)
		if err != nil {
			return errors.Wrap(err, "failed to list guardian links")
		}

		for _, link := range links {
			if link.Student != nil {
				children = append(children, link.Student)
			}
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to list children", slog.Any("error", err), slog.Any("parent_id", parentID))

		return nil, errors.Wrap(err, "failed to list children")
	}

	return children, nil
}

// RegisterDevice registers a push token for the signed-in account.
func (srv *rosterService) RegisterDevice(ctx context.Context, profileID uuid.UUID, input *usecase.RegisterDeviceInput) error {
	device := &entity.Device{
		ProfileID: profileID,
		Token:     input.Token,
		Platform:  input.Platform,
	}

	if err := srv.deviceRepo.Upsert(ctx, device); err != nil {
		srv.log(ctx).Error("Failed to register device", slog.Any("error", err), slog.Any("profile_id", profileID))

		return errors.Wrap(err, "failed to register device")
	}

	return nil
}
