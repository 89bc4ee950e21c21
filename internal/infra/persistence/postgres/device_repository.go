package postgres

import (
	"context"

	"academy/internal/domain/entity"
	"academy/internal/domain/repository"
	"academy/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// deviceRepository implements repository.DeviceRepository using GORM.
// Devices outlive any single transaction, so the repository is provided
// directly rather than through the transactional factory.
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository is the constructor for deviceRepository.
func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

// Upsert registers a device token, reassigning it if another profile held it.
func (repo *deviceRepository) Upsert(ctx context.Context, device *entity.Device) error {
	deviceM := &model.DeviceModel{
		ID:        device.ID,
		ProfileID: device.ProfileID,
		Token:     device.Token,
		Platform:  device.Platform,
		CreatedAt: device.CreatedAt,
		UpdatedAt: device.UpdatedAt,
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile_id", "platform", "updated_at"}),
		}).
		Create(deviceM).Error
	if err != nil {
		return errors.Wrap(err, "failed to upsert device")
	}

	device.ID = deviceM.ID
	device.CreatedAt = deviceM.CreatedAt
	device.UpdatedAt = deviceM.UpdatedAt

	return nil
}

// ListByProfile returns the registered devices of one profile.
func (repo *deviceRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*entity.Device, error) {
	var deviceMs []*model.DeviceModel
	err := repo.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&deviceMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices by profile")
	}

	devices := make([]*entity.Device, 0, len(deviceMs))
	for _, deviceM := range deviceMs {
		devices = append(devices, &entity.Device{
			ID:        deviceM.ID,
			ProfileID: deviceM.ProfileID,
			Token:     deviceM.Token,
			Platform:  deviceM.Platform,
			CreatedAt: deviceM.CreatedAt,
			UpdatedAt: deviceM.UpdatedAt,
		})
	}

	return devices, nil
}

// DeleteByToken removes a device registration.
func (repo *deviceRepository) DeleteByToken(ctx context.Context, token string) error {
	err := repo.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.DeviceModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete device by token")
	}

	return nil
}
