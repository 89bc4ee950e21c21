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

// groupService implements the GroupUsecase interface.
type groupService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewGroupService is the constructor for groupService.
func NewGroupService(txManager repository.TransactionManager, logger *slog.Logger) usecase.GroupUsecase {
	return &groupService{
		txManager: txManager,
		logger:    logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *groupService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateSubject persists a new subject.
func (srv *groupService) CreateSubject(ctx context.Context, name string) (*entity.Subject, error) {
	subject := &entity.Subject{Name: name}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.SubjectRepo().Create(ctx, subject); err != nil {
			return errors.Wrap(err, "failed to create subject")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create subject", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create subject")
	}

	return subject, nil
}

// ListSubjects returns all subjects.
func (srv *groupService) ListSubjects(ctx context.Context) ([]*entity.Subject, error) {
	var subjects []*entity.Subject

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.SubjectRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list subjects")
		}
		subjects = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subjects")
	}

	return subjects, nil
}

// DeleteSubject removes a subject.
func (srv *groupService) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.SubjectRepo().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrSubjectNotFound) {
				return errors.Wrap(domainerrors.ErrSubjectNotFound, "subject not found")
			}

			return errors.Wrap(err, "failed to delete subject")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete subject", slog.Any("error", err), slog.Any("subject_id", id))

		return errors.Wrap(err, "failed to delete subject")
	}

	return nil
}

// CreateGroup persists a new group after validating its subject and teacher.
func (srv *groupService) CreateGroup(ctx context.Context, input *usecase.SaveGroupInput) (*entity.Group, error) {
	var group *entity.Group

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		built, err := srv.buildGroup(ctx, repoFactory, input)
		if err != nil {
			return err
		}

		if err := repoFactory.GroupRepo().Create(ctx, built); err != nil {
			return errors.Wrap(err, "failed to create group")
		}
		group = built

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create group", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create group")
	}

	return group, nil
}

// UpdateGroup persists changes to an existing group.
func (srv *groupService) UpdateGroup(ctx context.Context, id uuid.UUID, input *usecase.SaveGroupInput) (*entity.Group, error) {
	var group *entity.Group

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		groupRepo := repoFactory.GroupRepo()

		existing, err := groupRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrGroupNotFound) {
				return errors.Wrap(domainerrors.ErrGroupNotFound, "group not found")
			}

			return errors.Wrap(err, "failed to find group")
		}

		built, err := srv.buildGroup(ctx, repoFactory, input)
		if err != nil {
			return err
		}
		built.ID = existing.ID
		built.CreatedAt = existing.CreatedAt

		if err := groupRepo.Update(ctx, built); err != nil {
			return errors.Wrap(err, "failed to update group")
		}
		group = built

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update group", slog.Any("error", err), slog.Any("group_id", id))

		return nil, errors.Wrap(err, "failed to update group")
	}

	return group, nil
}

// buildGroup assembles a group from input, checking that the subject exists
// and the teacher is an approved teacher profile.
func (srv *groupService) buildGroup(ctx context.Context, repoFactory repository.RepositoryFactory, input *usecase.SaveGroupInput) (*entity.Group, error) {
	subject, err := repoFactory.SubjectRepo().FindByID(ctx, input.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, errors.Wrap(domainerrors.ErrSubjectNotFound, "subject not found")
		}

		return nil, errors.Wrap(err, "failed to find subject")
	}

	teacher, err := repoFactory.ProfileRepo().FindByID(ctx, input.TeacherID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProfileNotFound, "teacher profile not found")
		}

		return nil, errors.Wrap(err, "failed to find teacher")
	}
	if teacher.Role != entity.RoleTeacher {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "assigned profile is not a teacher")
	}

	return &entity.Group{
		Name:      input.Name,
		SubjectID: subject.ID,
		TeacherID: teacher.ID,
		Room:      input.Room,
		Days:      input.Days,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Subject:   subject,
		Teacher:   teacher,
	}, nil
}

// DeleteGroup removes a group and its enrollments.
func (srv *groupService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.GroupRepo().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrGroupNotFound) {
				return errors.Wrap(domainerrors.ErrGroupNotFound, "group not found")
			}

			return errors.Wrap(err, "failed to delete group")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete group", slog.Any("error", err), slog.Any("group_id", id))

		return errors.Wrap(err, "failed to delete group")
	}

	return nil
}

// GetGroup retrieves one group with subject and teacher preloaded.
func (srv *groupService) GetGroup(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var group *entity.Group

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.GroupRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrGroupNotFound) {
				return errors.Wrap(domainerrors.ErrGroupNotFound, "group not found")
			}

			return errors.Wrap(err, "failed to find group")
		}
		group = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get group")
	}

	return group, nil
}

// ListGroups returns all groups.
func (srv *groupService) ListGroups(ctx context.Context) ([]*entity.Group, error) {
	var groups []*entity.Group

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.GroupRepo().List(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list groups")
		}
		groups = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups")
	}

	return groups, nil
}

// ListTeacherGroups returns the groups run by one teacher.
func (srv *groupService) ListTeacherGroups(ctx context.Context, teacherID uuid.UUID) ([]*entity.Group, error) {
	var groups []*entity.Group

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.GroupRepo().ListByTeacher(ctx, teacherID)
		if err != nil {
			return errors.Wrap(err, "failed to list teacher groups")
		}
		groups = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list teacher groups")
	}

	return groups, nil
}

// Enroll adds a student to a group.
func (srv *groupService) Enroll(ctx context.Context, groupID, studentID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.GroupRepo().FindByID(ctx, groupID); err != nil {
			if errors.Is(err, repository.ErrGroupNotFound) {
				return errors.Wrap(domainerrors.ErrGroupNotFound, "group not found")
			}

			return errors.Wrap(err, "failed to find group")
		}

		student, err := repoFactory.ProfileRepo().FindByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrProfileNotFound, "student profile not found")
			}

			return errors.Wrap(err, "failed to find student")
		}
		if student.Role != entity.RoleStudent {
			return errors.Wrap(domainerrors.ErrValidationFailed, "profile is not a student")
		}

		enrollmentRepo := repoFactory.EnrollmentRepo()

		exists, err := enrollmentRepo.Exists(ctx, groupID, studentID)
		if err != nil {
			return errors.Wrap(err, "failed to check enrollment")
		}
		if exists {
			return errors.Wrap(domainerrors.ErrAlreadyEnrolled, "student is already enrolled")
		}

		enrollment := &entity.Enrollment{GroupID: groupID, StudentID: studentID}
		if err := enrollmentRepo.Create(ctx, enrollment); err != nil {
			return errors.Wrap(err, "failed to create enrollment")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to enroll student",
			slog.Any("error", err), slog.Any("group_id", groupID), slog.Any("student_id", studentID))

		return errors.Wrap(err, "failed to enroll student")
	}

	return nil
}

// Unenroll removes a student from a group.
func (srv *groupService) Unenroll(ctx context.Context, groupID, studentID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.EnrollmentRepo().Delete(ctx, groupID, studentID); err != nil {
			if errors.Is(err, repository.ErrEnrollmentNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "enrollment not found")
			}

			return errors.Wrap(err, "failed to delete enrollment")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to unenroll student",
			slog.Any("error", err), slog.Any("group_id", groupID), slog.Any("student_id", studentID))

		return errors.Wrap(err, "failed to unenroll student")
	}

	return nil
}

// ListGroupStudents returns the student profiles enrolled in a group.
func (srv *groupService) ListGroupStudents(ctx context.Context, groupID uuid.UUID) ([]*entity.Profile, error) {
	var students []*entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		enrollments, err := repoFactory.EnrollmentRepo().ListByGroup(ctx, groupID)
		if err != nil {
			return errors.Wrap(err, "failed to list enrollments")
		}

		for _, enrollment := range enrollments {
			if enrollment.Student != nil {
				students = append(students, enrollment.Student)
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list group students")
	}

	return students, nil
}

// ListStudentGroups returns the groups a student is enrolled in.
func (srv *groupService) ListStudentGroups(ctx context.Context, studentID uuid.UUID) ([]*entity.Group, error) {
	var groups []*entity.Group

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		enrollments, err := repoFactory.EnrollmentRepo().ListByStudent(ctx, studentID)
		if err != nil {
			return errors.Wrap(err, "failed to list enrollments")
		}

		groupRepo := repoFactory.GroupRepo()
		for _, enrollment := range enrollments {
			group, err := groupRepo.FindByID(ctx, enrollment.GroupID)
			if err != nil {
				if errors.Is(err, repository.ErrGroupNotFound) {
					continue
				}

				return errors.Wrap(err, "failed to find group")
			}
			groups = append(groups, group)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list student groups")
	}

	return groups, nil
}
