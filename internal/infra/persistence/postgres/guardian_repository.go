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

// guardianRepository implements repository.GuardianRepository using GORM.
type guardianRepository struct {
	db *gorm.DB
}

// NewGuardianRepository is the constructor for guardianRepository.
func NewGuardianRepository(db *gorm.DB) repository.GuardianRepository {
	return &guardianRepository{db: db}
}

// CreateLink connects a parent profile to a student profile.
func (repo *guardianRepository) CreateLink(ctx context.Context, link *entity.GuardianLink) error {
	linkM := &model.GuardianLinkModel{
		ID:        link.ID,
		ParentID:  link.ParentID,
		StudentID: link.StudentID,
		CreatedAt: link.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(linkM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("guardian link already exists")
		}

		return errors.Wrap(err, "failed to create guardian link")
	}

	link.ID = linkM.ID
	link.CreatedAt = linkM.CreatedAt

	return nil
}

// ListByParent returns a parent's links with student profiles preloaded.
func (repo *guardianRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*entity.GuardianLink, error) {
	var linkMs []*model.GuardianLinkModel
	err := repo.db.WithContext(ctx).
		Preload("Student").
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&linkMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list guardian links")
	}

	links := make([]*entity.GuardianLink, 0, len(linkMs))
	for _, linkM := range linkMs {
		links = append(links, &entity.GuardianLink{
			ID:        linkM.ID,
			ParentID:  linkM.ParentID,
			StudentID: linkM.StudentID,
			CreatedAt: linkM.CreatedAt,
			Student:   toProfileDomain(linkM.Student),
		})
	}

	return links, nil
}

// Linked reports whether the parent is linked to the student.
func (repo *guardianRepository) Linked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.GuardianLinkModel{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check guardian link")
	}

	return count > 0, nil
}
