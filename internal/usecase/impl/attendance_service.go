package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "academy/internal/delivery/context"
	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/domain/repository"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// attendanceService implements the AttendanceUsecase interface.
type attendanceService struct {
	txManager      repository.TransactionManager
	attendanceRepo repository.AttendanceRepository
	logger         *slog.Logger
}

// NewAttendanceService is the constructor for attendanceService.
func NewAttendanceService(
	txManager repository.TransactionManager,
	attendanceRepo repository.AttendanceRepository,
	logger *slog.Logger,
) usecase.AttendanceUsecase {
	return &attendanceService{
		txManager:      txManager,
		attendanceRepo: attendanceRepo,
		logger:         logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *attendanceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Mark records one lesson's attendance in bulk. Re-marking the same student
// and date corrects the earlier record.
func (srv *attendanceService) Mark(ctx context.Context, teacherID uuid.UUID, input *usecase.MarkAttendanceInput) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		group, err := repoFactory.GroupRepo().FindByID(ctx, input.GroupID)
		if err != nil {
			if errors.Is(err, repository.ErrGroupNotFound) {
				return errors.Wrap(domainerrors.ErrGroupNotFound, "group not found")
			}

			return errors.Wrap(err, "failed to find group")
		}
		if group.TeacherID != teacherID {
			return errors.Wrap(domainerrors.ErrForbidden, "group belongs to another teacher")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to validate attendance", slog.Any("error", err), slog.Any("group_id", input.GroupID))

		return errors.Wrap(err, "failed to mark attendance")
	}

	date := input.Date.Truncate(24 * time.Hour)
	for _, mark := range input.Marks {
		if !mark.Status.IsValid() {
			return errors.Wrap(domainerrors.ErrValidationFailed, "unknown attendance status")
		}

		record := &entity.AttendanceRecord{
			StudentID: mark.StudentID,
			GroupID:   input.GroupID,
			Date:      date,
			Status:    mark.Status,
		}
		if err := srv.attendanceRepo.Upsert(ctx, record); err != nil {
			srv.log(ctx).Error("Failed to store attendance record",
				slog.Any("error", err), slog.Any("student_id", mark.StudentID))

			return errors.Wrap(err, "failed to mark attendance")
		}
	}

	srv.log(ctx).Info("Attendance marked",
		slog.Any("group_id", input.GroupID), slog.Int("marks", len(input.Marks)))

	return nil
}

// ListGroupAttendance returns a group's records, optionally for one date.
func (srv *attendanceService) ListGroupAttendance(ctx context.Context, groupID uuid.UUID, date *time.Time) ([]*entity.AttendanceRecord, error) {
	records, err := srv.attendanceRepo.List(ctx, repository.AttendanceFilter{GroupID: &groupID, Date: date})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list group attendance")
	}

	return records, nil
}

// ListStudentAttendance returns a student's own records.
func (srv *attendanceService) ListStudentAttendance(ctx context.Context, studentID uuid.UUID) ([]*entity.AttendanceRecord, error) {
	records, err := srv.attendanceRepo.List(ctx, repository.AttendanceFilter{StudentID: &studentID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list student attendance")
	}

	return records, nil
}

// ListChildAttendance returns a linked student's records for a parent.
func (srv *attendanceService) ListChildAttendance(ctx context.Context, parentID, studentID uuid.UUID) ([]*entity.AttendanceRecord, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		linked, err := repoFactory.GuardianRepo().Linked(ctx, parentID, studentID)
		if err != nil {
			return errors.Wrap(err, "failed to check guardian link")
		}
		if !linked {
			return errors.Wrap(domainerrors.ErrForbidden, "student is not linked to this parent")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "guardian check failed")
	}

	return srv.ListStudentAttendance(ctx, studentID)
}
