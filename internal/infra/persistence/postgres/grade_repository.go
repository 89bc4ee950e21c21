package postgres

import (
	"context"

	"academy/internal/domain/entity"
	"academy/internal/domain/repository"
	"academy/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// gradeRepository implements repository.GradeRepository using GORM.
type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository is the constructor for gradeRepository.
func NewGradeRepository(db *gorm.DB) repository.GradeRepository {
	return &gradeRepository{db: db}
}

// Create persists a new grade.
func (repo *gradeRepository) Create(ctx context.Context, grade *entity.Grade) error {
	gradeM := &model.GradeModel{
		ID:        grade.ID,
		StudentID: grade.StudentID,
		GroupID:   grade.GroupID,
		Value:     grade.Value,
		Comment:   grade.Comment,
		GradedOn:  grade.GradedOn,
		CreatedAt: grade.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(gradeM).Error; err != nil {
		return errors.Wrap(err, "failed to create grade")
	}

	grade.ID = gradeM.ID
	grade.CreatedAt = gradeM.CreatedAt

	return nil
}

// List returns grades matching the filter, newest first.
func (repo *gradeRepository) List(ctx context.Context, filter repository.GradeFilter) ([]*entity.Grade, error) {
	query := repo.db.WithContext(ctx).
		Preload("Student").
		Preload("Group").
		Preload("Group.Subject")
	if filter.GroupID != nil {
		query = query.Where("group_id = ?", *filter.GroupID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	var gradeMs []*model.GradeModel
	if err := query.Order("graded_on DESC, created_at DESC").Find(&gradeMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list grades")
	}

	grades := make([]*entity.Grade, 0, len(gradeMs))
	for _, gradeM := range gradeMs {
		grades = append(grades, &entity.Grade{
			ID:        gradeM.ID,
			StudentID: gradeM.StudentID,
			GroupID:   gradeM.GroupID,
			Value:     gradeM.Value,
			Comment:   gradeM.Comment,
			GradedOn:  gradeM.GradedOn,
			CreatedAt: gradeM.CreatedAt,
			Student:   toProfileDomain(gradeM.Student),
			Group:     toGroupDomain(gradeM.Group),
		})
	}

	return grades, nil
}

// AverageByStudent returns the mean grade value for a student, or nil when no
// grades exist.
func (repo *gradeRepository) AverageByStudent(ctx context.Context, studentID uuid.UUID) (*float64, error) {
	var avg *float64
	err := repo.db.WithContext(ctx).
		Model(&model.GradeModel{}).
		Select("AVG(value)").
		Where("student_id = ?", studentID).
		Scan(&avg).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to average grades")
	}

	return avg, nil
}
