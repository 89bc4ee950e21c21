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

// attendanceRepository implements repository.AttendanceRepository using GORM.
type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository is the constructor for attendanceRepository.
func NewAttendanceRepository(db *gorm.DB) repository.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Upsert records or corrects one student's attendance for a lesson date.
func (repo *attendanceRepository) Upsert(ctx context.Context, record *entity.AttendanceRecord) error {
	recordM := &model.AttendanceModel{
		ID:        record.ID,
		StudentID: record.StudentID,
		GroupID:   record.GroupID,
		Date:      record.Date,
		Status:    string(record.Status),
		CreatedAt: record.CreatedAt,
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "group_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).
		Create(recordM).Error
	if err != nil {
		return errors.Wrap(err, "failed to upsert attendance record")
	}

	record.ID = recordM.ID
	record.CreatedAt = recordM.CreatedAt

	return nil
}

// List returns records matching the filter with student and group preloaded.
func (repo *attendanceRepository) List(ctx context.Context, filter repository.AttendanceFilter) ([]*entity.AttendanceRecord, error) {
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
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}

	var recordMs []*model.AttendanceModel
	if err := query.Order("date DESC").Find(&recordMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list attendance records")
	}

	records := make([]*entity.AttendanceRecord, 0, len(recordMs))
	for _, recordM := range recordMs {
		records = append(records, &entity.AttendanceRecord{
			ID:        recordM.ID,
			StudentID: recordM.StudentID,
			GroupID:   recordM.GroupID,
			Date:      recordM.Date,
			Status:    entity.AttendanceStatus(recordM.Status),
			CreatedAt: recordM.CreatedAt,
			Student:   toProfileDomain(recordM.Student),
			Group:     toGroupDomain(recordM.Group),
		})
	}

	return records, nil
}

// RateByStudent returns the share of non-absent records for a student, or nil
// when no records exist.
func (repo *attendanceRepository) RateByStudent(ctx context.Context, studentID uuid.UUID) (*float64, error) {
	var rate *float64
	err := repo.db.WithContext(ctx).
		Model(&model.AttendanceModel{}).
		Select("AVG(CASE WHEN status = ? THEN 0.0 ELSE 1.0 END)", string(entity.AttendanceAbsent)).
		Where("student_id = ?", studentID).
		Scan(&rate).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute attendance rate")
	}

	return rate, nil
}
