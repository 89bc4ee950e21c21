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

// subjectRepository implements repository.SubjectRepository using GORM.
type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository is the constructor for subjectRepository.
func NewSubjectRepository(db *gorm.DB) repository.SubjectRepository {
	return &subjectRepository{db: db}
}

// Create persists a new subject.
func (repo *subjectRepository) Create(ctx context.Context, subject *entity.Subject) error {
	subjectM := fromSubjectDomain(subject)

	if err := repo.db.WithContext(ctx).Create(subjectM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("subject name already exists")
		}

		return errors.Wrap(err, "failed to create subject")
	}

	subject.ID = subjectM.ID
	subject.CreatedAt = subjectM.CreatedAt
	subject.UpdatedAt = subjectM.UpdatedAt

	return nil
}

// FindByID retrieves a subject by ID.
func (repo *subjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subject, error) {
	var subjectM model.SubjectModel
	if err := repo.db.WithContext(ctx).First(&subjectM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubjectNotFound
		}

		return nil, errors.Wrap(err, "failed to find subject by id")
	}

	return toSubjectDomain(&subjectM), nil
}

// List returns all subjects ordered by name.
func (repo *subjectRepository) List(ctx context.Context) ([]*entity.Subject, error) {
	var subjectMs []*model.SubjectModel
	if err := repo.db.WithContext(ctx).Order("name ASC").Find(&subjectMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list subjects")
	}

	subjects := make([]*entity.Subject, 0, len(subjectMs))
	for _, subjectM := range subjectMs {
		subjects = append(subjects, toSubjectDomain(subjectM))
	}

	return subjects, nil
}

// Delete removes a subject. Groups still teaching it keep it in place via the
// foreign key, which surfaces as a conflict.
func (repo *subjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.SubjectModel{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrConflict.WrapMessage("subject is still taught by a group")
		}

		return errors.Wrap(result.Error, "failed to delete subject")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSubjectNotFound
	}

	return nil
}

func toSubjectDomain(data *model.SubjectModel) *entity.Subject {
	if data == nil {
		return nil
	}

	return &entity.Subject{
		ID:        data.ID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromSubjectDomain(data *entity.Subject) *model.SubjectModel {
	return &model.SubjectModel{
		ID:        data.ID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
