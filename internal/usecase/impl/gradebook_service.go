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

// gradebookService implements the GradebookUsecase interface.
type gradebookService struct {
	txManager repository.TransactionManager
	gradeRepo repository.GradeRepository
	logger    *slog.Logger
}

// NewGradebookService is the constructor for gradebookService.
func NewGradebookService(
	txManager repository.TransactionManager,
	gradeRepo repository.GradeRepository,
	logger *slog.Logger,
) usecase.GradebookUsecase {
	return &gradebookService{
		txManager: txManager,
		gradeRepo: gradeRepo,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *gradebookService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecordGrade stores one mark after checking the teacher runs the group and
// the student is enrolled in it.
func (srv *gradebookService) RecordGrade(ctx context.Context, teacherID uuid.UUID, input *usecase.RecordGradeInput) (*entity.Grade, error) {
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

		enrolled, err := repoFactory.EnrollmentRepo().Exists(ctx, input.GroupID, input.StudentID)
		if err != nil {
			return errors.Wrap(err, "failed to check enrollment")
		}
		if !enrolled {
			return errors.Wrap(domainerrors.ErrValidationFailed, "student is not enrolled in this group")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to validate grade", slog.Any("error", err), slog.Any("teacher_id", teacherID))

		return nil, errors.Wrap(err, "failed to record grade")
	}

	gradedOn := input.GradedOn
	if gradedOn.IsZero() {
		gradedOn = time.Now()
	}

	grade := &entity.Grade{
		StudentID: input.StudentID,
		GroupID:   input.GroupID,
		Value:     input.Value,
		Comment:   input.Comment,
		GradedOn:  gradedOn,
	}
	if err := srv.gradeRepo.Create(ctx, grade); err != nil {
		srv.log(ctx).Error("Failed to store grade", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to record grade")
	}

	return grade, nil
}

// ListGroupGrades returns all grades recorded for a group.
func (srv *gradebookService) ListGroupGrades(ctx context.Context, groupID uuid.UUID) ([]*entity.Grade, error) {
	grades, err := srv.gradeRepo.List(ctx, repository.GradeFilter{GroupID: &groupID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list group grades")
	}

	return grades, nil
}

// ListStudentGrades returns a student's own grades.
func (srv *gradebookService) ListStudentGrades(ctx context.Context, studentID uuid.UUID) ([]*entity.Grade, error) {
	grades, err := srv.gradeRepo.List(ctx, repository.GradeFilter{StudentID: &studentID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list student grades")
	}

	return grades, nil
}

// ListChildGrades returns a linked student's grades for a parent, refusing
// when no guardian link exists.
func (srv *gradebookService) ListChildGrades(ctx context.Context, parentID, studentID uuid.UUID) ([]*entity.Grade, error) {
	if err := srv.requireGuardianLink(ctx, parentID, studentID); err != nil {
		return nil, err
	}

	return srv.ListStudentGrades(ctx, studentID)
}

func (srv *gradebookService) requireGuardianLink(ctx context.Context, parentID, studentID uuid.UUID) error {
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
		return errors.Wrap(err, "guardian check failed")
	}

	return nil
}
