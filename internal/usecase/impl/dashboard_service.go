package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "academy/internal/delivery/context"
	"academy/internal/domain/entity"
	"academy/internal/domain/repository"
	"academy/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// dashboardService implements the DashboardUsecase interface.
type dashboardService struct {
	txManager      repository.TransactionManager
	gradeRepo      repository.GradeRepository
	attendanceRepo repository.AttendanceRepository
	paymentRepo    repository.PaymentRepository
	logger         *slog.Logger
}

// NewDashboardService is the constructor for dashboardService.
func NewDashboardService(
	txManager repository.TransactionManager,
	gradeRepo repository.GradeRepository,
	attendanceRepo repository.AttendanceRepository,
	paymentRepo repository.PaymentRepository,
	logger *slog.Logger,
) usecase.DashboardUsecase {
	return &dashboardService{
		txManager:      txManager,
		gradeRepo:      gradeRepo,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
		logger:         logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *dashboardService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Owner builds the admin landing aggregates.
func (srv *dashboardService) Owner(ctx context.Context) (*usecase.OwnerDashboard, error) {
	dashboard := &usecase.OwnerDashboard{}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		counts, err := profileRepo.CountByRole(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to count profiles")
		}
		dashboard.Students = counts[entity.RoleStudent]
		dashboard.Teachers = counts[entity.RoleTeacher]
		dashboard.Parents = counts[entity.RoleParent]

		groups, err := repoFactory.GroupRepo().Count(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to count groups")
		}
		dashboard.Groups = groups

		pending := entity.StatusPending
		requests, err := profileRepo.List(ctx, repository.ProfileFilter{Status: &pending})
		if err != nil {
			return errors.Wrap(err, "failed to list pending requests")
		}
		dashboard.PendingRequests = len(requests)

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to build owner dashboard", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to build owner dashboard")
	}

	month := time.Now().Format("2006-01")
	revenue, err := srv.paymentRepo.SumByMonth(ctx, month)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum monthly revenue")
	}
	dashboard.MonthRevenue = revenue

	return dashboard, nil
}

// Teacher builds a teacher's landing aggregates.
func (srv *dashboardService) Teacher(ctx context.Context, teacherID uuid.UUID) (*usecase.TeacherDashboard, error) {
	dashboard := &usecase.TeacherDashboard{}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		groups, err := repoFactory.GroupRepo().ListByTeacher(ctx, teacherID)
		if err != nil {
			return errors.Wrap(err, "failed to list teacher groups")
		}
		dashboard.Groups = groups

		enrollmentRepo := repoFactory.EnrollmentRepo()
		for _, group := range groups {
			enrollments, err := enrollmentRepo.ListByGroup(ctx, group.ID)
			if err != nil {
				return errors.Wrap(err, "failed to list enrollments")
			}
			dashboard.Students += len(enrollments)
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to build teacher dashboard", slog.Any("error", err), slog.Any("teacher_id", teacherID))

		return nil, errors.Wrap(err, "failed to build teacher dashboard")
	}

	return dashboard, nil
}

// Student builds a student's landing aggregates.
func (srv *dashboardService) Student(ctx context.Context, studentID uuid.UUID) (*usecase.StudentDashboard, error) {
	dashboard := &usecase.StudentDashboard{}

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
			dashboard.Groups = append(dashboard.Groups, group)
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to build student dashboard", slog.Any("error", err), slog.Any("student_id", studentID))

		return nil, errors.Wrap(err, "failed to build student dashboard")
	}

	average, err := srv.gradeRepo.AverageByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to average grades")
	}
	dashboard.AverageGrade = average

	rate, err := srv.attendanceRepo.RateByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute attendance rate")
	}
	dashboard.AttendanceRate = rate

	return dashboard, nil
}

// Parent builds a parent's landing aggregates: one summary per linked child.
func (srv *dashboardService) Parent(ctx context.Context, parentID uuid.UUID) (*usecase.ParentDashboard, error) {
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
		srv.log(ctx).Error("Failed to build parent dashboard", slog.Any("error", err), slog.Any("parent_id", parentID))

		return nil, errors.Wrap(err, "failed to build parent dashboard")
	}

	dashboard := &usecase.ParentDashboard{Children: make([]usecase.ChildSummary, 0, len(children))}
	for _, child := range children {
		summary := usecase.ChildSummary{Student: child}

		average, err := srv.gradeRepo.AverageByStudent(ctx, child.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to average grades")
		}
		summary.AverageGrade = average

		rate, err := srv.attendanceRepo.RateByStudent(ctx, child.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to compute attendance rate")
		}
		summary.AttendanceRate = rate

		pending := entity.PaymentPending
		unpaid, err := srv.paymentRepo.List(ctx, repository.PaymentFilter{StudentID: &child.ID, Status: &pending})
		if err != nil {
			return nil, errors.Wrap(err, "failed to list unpaid months")
		}
		summary.UnpaidMonths = len(unpaid)

		dashboard.Children = append(dashboard.Children, summary)
	}

	return dashboard, nil
}
