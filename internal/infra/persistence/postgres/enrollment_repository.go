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

// enrollmentRepository implements repository.EnrollmentRepository using GORM.
type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository is the constructor for enrollmentRepository.
func NewEnrollmentRepository(db *gorm.DB) repository.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Create enrolls a student in a group.
func (repo *enrollmentRepository) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	enrollmentM := &model.EnrollmentModel{
		ID:        enrollment.ID,
		GroupID:   enrollment.GroupID,
		StudentID: enrollment.StudentID,
		CreatedAt: enrollment.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(enrollmentM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyEnrolled.WrapMessage("student already enrolled in group")
		}

		return errors.Wrap(err, "failed to create enrollment")
	}

	enrollment.ID = enrollmentM.ID
	enrollment.CreatedAt = enrollmentM.CreatedAt

	return nil
}

// Delete removes a student from a group.
func (repo *enrollmentRepository) Delete(ctx context.Context, groupID, studentID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("group_id = ? AND student_id = ?", groupID, studentID).
		Delete(&model.EnrollmentModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete enrollment")
	}
	if result.RowsAffected == 0 {
		return repository.ErrEnrollmentNotFound
	}

	return nil
}

// ListByGroup returns a group's enrollments with student profiles preloaded.
func (repo *enrollmentRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Enrollment, error) {
	var enrollmentMs []*model.EnrollmentModel
	err := repo.db.WithContext(ctx).
		Preload("Student").
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&enrollmentMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list enrollments by group")
	}

	return toEnrollmentDomains(enrollmentMs), nil
}

// ListByStudent returns the enrollments of one student.
func (repo *enrollmentRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.Enrollment, error) {
	var enrollmentMs []*model.EnrollmentModel
	err := repo.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&enrollmentMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list enrollments by student")
	}

	return toEnrollmentDomains(enrollmentMs), nil
}

// Exists reports whether the student is already enrolled in the group.
func (repo *enrollmentRepository) Exists(ctx context.Context, groupID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.EnrollmentModel{}).
		Where("group_id = ? AND student_id = ?", groupID, studentID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check enrollment")
	}

	return count > 0, nil
}

func toEnrollmentDomains(data []*model.EnrollmentModel) []*entity.Enrollment {
	enrollments := make([]*entity.Enrollment, 0, len(data))
	for _, enrollmentM := range data {
		enrollments = append(enrollments, &entity.Enrollment{
			ID:        enrollmentM.ID,
			GroupID:   enrollmentM.GroupID,
			StudentID: enrollmentM.StudentID,
			CreatedAt: enrollmentM.CreatedAt,
			Student:   toProfileDomain(enrollmentM.Student),
		})
	}

	return enrollments
}
