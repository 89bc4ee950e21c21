package usecase

import (
	"context"
	"time"

	"academy/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Approval workflow ---

// ApprovalUsecase is the owner's registration-request workflow.
type ApprovalUsecase interface {
	// ListRequests returns profiles awaiting a decision, newest first.
	ListRequests(ctx context.Context) ([]*entity.Profile, error)

	// Decide approves or rejects a pending registration and notifies the
	// requester's registered devices when push is configured.
	Decide(ctx context.Context, profileID uuid.UUID, approve bool) error
}

// --- Roster ---

// ListProfilesInput narrows roster listings.
type ListProfilesInput struct {
	Role   entity.Role `query:"role"`
	Search string      `query:"search"`
}

// UpdateProfileInput carries editable profile fields.
type UpdateProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// RegisterDeviceInput registers a push token for the signed-in account.
type RegisterDeviceInput struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=android ios web"`
}

// RosterUsecase covers the people-management screens: students, teachers and
// parents, plus guardian links and device registration.
type RosterUsecase interface {
	ListProfiles(ctx context.Context, input *ListProfilesInput) ([]*entity.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input *UpdateProfileInput) (*entity.Profile, error)

	// DeactivateProfile revokes an approved account. The person disappears
	// from rosters and can no longer sign in.
	DeactivateProfile(ctx context.Context, id uuid.UUID) error

	// LinkGuardian connects a parent to the student carrying the given code.
	LinkGuardian(ctx context.Context, parentID uuid.UUID, studentCode string) (*entity.GuardianLink, error)

	// ListChildren returns the students linked to a parent.
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*entity.Profile, error)

	RegisterDevice(ctx context.Context, profileID uuid.UUID, input *RegisterDeviceInput) error
}

// --- Groups and subjects ---

// SaveGroupInput carries group fields for create and update.
type SaveGroupInput struct {
	Name      string    `json:"name" validate:"required"`
	SubjectID uuid.UUID `json:"subject_id" validate:"required"`
	TeacherID uuid.UUID `json:"teacher_id" validate:"required"`
	Room      string    `json:"room"`
	Days      []string  `json:"days"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

// GroupUsecase covers groups, subjects and enrollments.
type GroupUsecase interface {
	CreateSubject(ctx context.Context, name string) (*entity.Subject, error)
	ListSubjects(ctx context.Context) ([]*entity.Subject, error)
	DeleteSubject(ctx context.Context, id uuid.UUID) error

	CreateGroup(ctx context.Context, input *SaveGroupInput) (*entity.Group, error)
	UpdateGroup(ctx context.Context, id uuid.UUID, input *SaveGroupInput) (*entity.Group, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error
	GetGroup(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	ListGroups(ctx context.Context) ([]*entity.Group, error)

	// ListTeacherGroups returns the groups run by one teacher.
	ListTeacherGroups(ctx context.Context, teacherID uuid.UUID) ([]*entity.Group, error)

	Enroll(ctx context.Context, groupID, studentID uuid.UUID) error
	Unenroll(ctx context.Context, groupID, studentID uuid.UUID) error
	ListGroupStudents(ctx context.Context, groupID uuid.UUID) ([]*entity.Profile, error)

	// ListStudentGroups returns the groups a student is enrolled in.
	ListStudentGroups(ctx context.Context, studentID uuid.UUID) ([]*entity.Group, error)
}

// --- Gradebook ---

// RecordGradeInput carries one mark.
type RecordGradeInput struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	GroupID   uuid.UUID `json:"group_id" validate:"required"`
	Value     int       `json:"value" validate:"min=0,max=100"`
	Comment   string    `json:"comment"`
	GradedOn  time.Time `json:"graded_on"`
}

// GradebookUsecase covers grade recording and the per-role grade views.
type GradebookUsecase interface {
	RecordGrade(ctx context.Context, teacherID uuid.UUID, input *RecordGradeInput) (*entity.Grade, error)
	ListGroupGrades(ctx context.Context, groupID uuid.UUID) ([]*entity.Grade, error)
	ListStudentGrades(ctx context.Context, studentID uuid.UUID) ([]*entity.Grade, error)

	// ListChildGrades returns a linked student's grades for a parent,
	// refusing when no guardian link exists.
	ListChildGrades(ctx context.Context, parentID, studentID uuid.UUID) ([]*entity.Grade, error)
}

// --- Attendance ---

// MarkAttendanceInput records one group lesson's attendance in bulk.
type MarkAttendanceInput struct {
	GroupID uuid.UUID              `json:"group_id" validate:"required"`
	Date    time.Time              `json:"date" validate:"required"`
	Marks   []AttendanceMarkInput  `json:"marks" validate:"required,dive"`
}

// AttendanceMarkInput is one student's outcome within a bulk mark.
type AttendanceMarkInput struct {
	StudentID uuid.UUID               `json:"student_id" validate:"required"`
	Status    entity.AttendanceStatus `json:"status" validate:"required"`
}

// AttendanceUsecase covers attendance marking and the per-role views.
type AttendanceUsecase interface {
	Mark(ctx context.Context, teacherID uuid.UUID, input *MarkAttendanceInput) error
	ListGroupAttendance(ctx context.Context, groupID uuid.UUID, date *time.Time) ([]*entity.AttendanceRecord, error)
	ListStudentAttendance(ctx context.Context, studentID uuid.UUID) ([]*entity.AttendanceRecord, error)
	ListChildAttendance(ctx context.Context, parentID, studentID uuid.UUID) ([]*entity.AttendanceRecord, error)
}

// --- Billing ---

// ChargeInput creates one monthly tuition charge.
type ChargeInput struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Amount    int64     `json:"amount" validate:"required,gt=0"`
	Month     string    `json:"month" validate:"required"`
}

// ListPaymentsInput narrows payment listings.
type ListPaymentsInput struct {
	StudentID *uuid.UUID            `query:"student_id"`
	Month     string                `query:"month"`
	Status    *entity.PaymentStatus `query:"status"`
}

// BillingUsecase covers tuition charges and payment views.
type BillingUsecase interface {
	Charge(ctx context.Context, input *ChargeInput) (*entity.Payment, error)
	MarkPaid(ctx context.Context, paymentID uuid.UUID) (*entity.Payment, error)
	ListPayments(ctx context.Context, input *ListPaymentsInput) ([]*entity.Payment, error)
	ListStudentPayments(ctx context.Context, studentID uuid.UUID) ([]*entity.Payment, error)
	ListChildPayments(ctx context.Context, parentID, studentID uuid.UUID) ([]*entity.Payment, error)
}

// --- Dashboards ---

// OwnerDashboard aggregates the admin landing view.
type OwnerDashboard struct {
	Students        int64 `json:"students"`
	Teachers        int64 `json:"teachers"`
	Parents         int64 `json:"parents"`
	Groups          int64 `json:"groups"`
	PendingRequests int   `json:"pending_requests"`
	MonthRevenue    int64 `json:"month_revenue"`
}

// TeacherDashboard aggregates a teacher's landing view.
type TeacherDashboard struct {
	Groups   []*entity.Group `json:"groups"`
	Students int             `json:"students"`
}

// StudentDashboard aggregates a student's landing view.
type StudentDashboard struct {
	Groups         []*entity.Group `json:"groups"`
	AverageGrade   *float64        `json:"average_grade"`
	AttendanceRate *float64        `json:"attendance_rate"`
}

// ParentDashboard aggregates a parent's landing view.
type ParentDashboard struct {
	Children []ChildSummary `json:"children"`
}

// ChildSummary is one linked student's headline numbers.
type ChildSummary struct {
	Student        *entity.Profile `json:"student"`
	AverageGrade   *float64        `json:"average_grade"`
	AttendanceRate *float64        `json:"attendance_rate"`
	UnpaidMonths   int             `json:"unpaid_months"`
}

// DashboardUsecase builds the role-specific landing aggregates.
type DashboardUsecase interface {
	Owner(ctx context.Context) (*OwnerDashboard, error)
	Teacher(ctx context.Context, teacherID uuid.UUID) (*TeacherDashboard, error)
	Student(ctx context.Context, studentID uuid.UUID) (*StudentDashboard, error)
	Parent(ctx context.Context, parentID uuid.UUID) (*ParentDashboard, error)
}
