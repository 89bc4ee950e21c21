package impl

import (
	"context"
	"strings"
	"sync"

	"academy/internal/domain/entity"
	"academy/internal/domain/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory data set backing the service tests. It acts as
// TransactionManager and RepositoryFactory; the typed repo wrappers below
// give each repository interface a view over the same data, so assertions
// can inspect stored state directly.
type memStore struct {
	mu sync.Mutex

	profiles    map[uuid.UUID]*entity.Profile
	credentials map[string]*entity.Credential
	subjects    map[uuid.UUID]*entity.Subject
	groups      map[uuid.UUID]*entity.Group
	enrollments []*entity.Enrollment
	links       []*entity.GuardianLink
	devices     map[string]*entity.Device
	grades      []*entity.Grade
	attendance  []*entity.AttendanceRecord
	payments    map[uuid.UUID]*entity.Payment
}

func newMemStore() *memStore {
	return &memStore{
		profiles:    make(map[uuid.UUID]*entity.Profile),
		credentials: make(map[string]*entity.Credential),
		subjects:    make(map[uuid.UUID]*entity.Subject),
		groups:      make(map[uuid.UUID]*entity.Group),
		devices:     make(map[string]*entity.Device),
		payments:    make(map[uuid.UUID]*entity.Payment),
	}
}

func (m *memStore) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m)
}

func (m *memStore) ProfileRepo() repository.ProfileRepository       { return &memProfileRepo{m} }
func (m *memStore) CredentialRepo() repository.CredentialRepository { return &memCredentialRepo{m} }
func (m *memStore) GroupRepo() repository.GroupRepository           { return &memGroupRepo{m} }
func (m *memStore) SubjectRepo() repository.SubjectRepository       { return &memSubjectRepo{m} }
func (m *memStore) EnrollmentRepo() repository.EnrollmentRepository { return &memEnrollmentRepo{m} }
func (m *memStore) GuardianRepo() repository.GuardianRepository     { return &memGuardianRepo{m} }

func (m *memStore) addProfile(role entity.Role, status entity.ApprovalStatus, fullName string) *entity.Profile {
	profile := &entity.Profile{
		ID:       uuid.New(),
		Email:    strings.ToLower(strings.ReplaceAll(fullName, " ", ".")) + "@academy.test",
		Role:     role,
		Status:   status,
		FullName: fullName,
	}
	m.mu.Lock()
	m.profiles[profile.ID] = profile
	m.mu.Unlock()

	return profile
}

func (m *memStore) addGroup(teacherID uuid.UUID) *entity.Group {
	subject := &entity.Subject{ID: uuid.New(), Name: "Mathematics"}
	group := &entity.Group{
		ID:        uuid.New(),
		Name:      "Math A",
		SubjectID: subject.ID,
		TeacherID: teacherID,
		Subject:   subject,
	}
	m.mu.Lock()
	m.subjects[subject.ID] = subject
	m.groups[group.ID] = group
	m.mu.Unlock()

	return group
}

func (m *memStore) enroll(groupID, studentID uuid.UUID) {
	m.mu.Lock()
	m.enrollments = append(m.enrollments, &entity.Enrollment{
		ID:        uuid.New(),
		GroupID:   groupID,
		StudentID: studentID,
		Student:   m.profiles[studentID],
	})
	m.mu.Unlock()
}

func (m *memStore) link(parentID, studentID uuid.UUID) {
	m.mu.Lock()
	m.links = append(m.links, &entity.GuardianLink{
		ID:        uuid.New(),
		ParentID:  parentID,
		StudentID: studentID,
		Student:   m.profiles[studentID],
	})
	m.mu.Unlock()
}

// --- ProfileRepository ---

type memProfileRepo struct{ s *memStore }

func (r *memProfileRepo) Create(ctx context.Context, profile *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	r.s.profiles[profile.ID] = profile

	return nil
}

func (r *memProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	profile, ok := r.s.profiles[id]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}

	return profile, nil
}

func (r *memProfileRepo) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, profile := range r.s.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}

	return nil, repository.ErrProfileNotFound
}

func (r *memProfileRepo) FindByStudentCode(ctx context.Context, code string) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, profile := range r.s.profiles {
		if profile.StudentCode != "" && profile.StudentCode == code {
			return profile, nil
		}
	}

	return nil, repository.ErrProfileNotFound
}

func (r *memProfileRepo) List(ctx context.Context, filter repository.ProfileFilter) ([]*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Profile
	for _, profile := range r.s.profiles {
		if filter.Role != nil && profile.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && profile.Status != *filter.Status {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(profile.FullName+profile.Email), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, profile)
	}

	return out, nil
}

func (r *memProfileRepo) CountByRole(ctx context.Context) (map[entity.Role]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[entity.Role]int64)
	for _, profile := range r.s.profiles {
		counts[profile.Role]++
	}

	return counts, nil
}

func (r *memProfileRepo) Update(ctx context.Context, profile *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[profile.ID]; !ok {
		return repository.ErrProfileNotFound
	}
	r.s.profiles[profile.ID] = profile

	return nil
}

func (r *memProfileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	profile, ok := r.s.profiles[id]
	if !ok {
		return repository.ErrProfileNotFound
	}
	profile.Status = status

	return nil
}

// --- CredentialRepository ---

type memCredentialRepo struct{ s *memStore }

func (r *memCredentialRepo) Create(ctx context.Context, credential *entity.Credential) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.credentials[credential.Email] = credential

	return nil
}

func (r *memCredentialRepo) FindByEmail(ctx context.Context, email string) (*entity.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	credential, ok := r.s.credentials[email]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}

	return credential, nil
}

// --- GroupRepository ---

type memGroupRepo struct{ s *memStore }

func (r *memGroupRepo) Create(ctx context.Context, group *entity.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	r.s.groups[group.ID] = group

	return nil
}

func (r *memGroupRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	group, ok := r.s.groups[id]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}

	return group, nil
}

func (r *memGroupRepo) List(ctx context.Context) ([]*entity.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.Group, 0, len(r.s.groups))
	for _, group := range r.s.groups {
		out = append(out, group)
	}

	return out, nil
}

func (r *memGroupRepo) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*entity.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Group
	for _, group := range r.s.groups {
		if group.TeacherID == teacherID {
			out = append(out, group)
		}
	}

	return out, nil
}

func (r *memGroupRepo) Update(ctx context.Context, group *entity.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.groups[group.ID]; !ok {
		return repository.ErrGroupNotFound
	}
	r.s.groups[group.ID] = group

	return nil
}

func (r *memGroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.groups[id]; !ok {
		return repository.ErrGroupNotFound
	}
	delete(r.s.groups, id)

	return nil
}

func (r *memGroupRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.groups)), nil
}

// --- SubjectRepository ---

type memSubjectRepo struct{ s *memStore }

func (r *memSubjectRepo) Create(ctx context.Context, subject *entity.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if subject.ID == uuid.Nil {
		subject.ID = uuid.New()
	}
	r.s.subjects[subject.ID] = subject

	return nil
}

func (r *memSubjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	subject, ok := r.s.subjects[id]
	if !ok {
		return nil, repository.ErrSubjectNotFound
	}

	return subject, nil
}

func (r *memSubjectRepo) List(ctx context.Context) ([]*entity.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*entity.Subject, 0, len(r.s.subjects))
	for _, subject := range r.s.subjects {
		out = append(out, subject)
	}

	return out, nil
}

func (r *memSubjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.subjects[id]; !ok {
		return repository.ErrSubjectNotFound
	}
	delete(r.s.subjects, id)

	return nil
}

// --- EnrollmentRepository ---

type memEnrollmentRepo struct{ s *memStore }

func (r *memEnrollmentRepo) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	if enrollment.Student == nil {
		enrollment.Student = r.s.profiles[enrollment.StudentID]
	}
	r.s.enrollments = append(r.s.enrollments, enrollment)

	return nil
}

func (r *memEnrollmentRepo) Delete(ctx context.Context, groupID, studentID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, enrollment := range r.s.enrollments {
		if enrollment.GroupID == groupID && enrollment.StudentID == studentID {
			r.s.enrollments = append(r.s.enrollments[:i], r.s.enrollments[i+1:]...)

			return nil
		}
	}

	return repository.ErrEnrollmentNotFound
}

func (r *memEnrollmentRepo) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*entity.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Enrollment
	for _, enrollment := range r.s.enrollments {
		if enrollment.GroupID == groupID {
			out = append(out, enrollment)
		}
	}

	return out, nil
}

func (r *memEnrollmentRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*entity.Enrollment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Enrollment
	for _, enrollment := range r.s.enrollments {
		if enrollment.StudentID == studentID {
			out = append(out, enrollment)
		}
	}

	return out, nil
}

func (r *memEnrollmentRepo) Exists(ctx context.Context, groupID, studentID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, enrollment := range r.s.enrollments {
		if enrollment.GroupID == groupID && enrollment.StudentID == studentID {
			return true, nil
		}
	}

	return false, nil
}

// --- GuardianRepository ---

type memGuardianRepo struct{ s *memStore }

func (r *memGuardianRepo) CreateLink(ctx context.Context, link *entity.GuardianLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	if link.Student == nil {
		link.Student = r.s.profiles[link.StudentID]
	}
	r.s.links = append(r.s.links, link)

	return nil
}

func (r *memGuardianRepo) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*entity.GuardianLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.GuardianLink
	for _, link := range r.s.links {
		if link.ParentID == parentID {
			out = append(out, link)
		}
	}

	return out, nil
}

func (r *memGuardianRepo) Linked(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, link := range r.s.links {
		if link.ParentID == parentID && link.StudentID == studentID {
			return true, nil
		}
	}

	return false, nil
}

// --- DeviceRepository ---

type memDeviceRepo struct{ s *memStore }

func newMemDeviceRepo(s *memStore) repository.DeviceRepository { return &memDeviceRepo{s} }

func (r *memDeviceRepo) Upsert(ctx context.Context, device *entity.Device) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	r.s.devices[device.Token] = device

	return nil
}

func (r *memDeviceRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*entity.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Device
	for _, device := range r.s.devices {
		if device.ProfileID == profileID {
			out = append(out, device)
		}
	}

	return out, nil
}

func (r *memDeviceRepo) DeleteByToken(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.devices, token)

	return nil
}

// --- GradeRepository ---

type memGradeRepo struct{ s *memStore }

func newMemGradeRepo(s *memStore) repository.GradeRepository { return &memGradeRepo{s} }

func (r *memGradeRepo) Create(ctx context.Context, grade *entity.Grade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if grade.ID == uuid.Nil {
		grade.ID = uuid.New()
	}
	r.s.grades = append(r.s.grades, grade)

	return nil
}

func (r *memGradeRepo) List(ctx context.Context, filter repository.GradeFilter) ([]*entity.Grade, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Grade
	for _, grade := range r.s.grades {
		if filter.GroupID != nil && grade.GroupID != *filter.GroupID {
			continue
		}
		if filter.StudentID != nil && grade.StudentID != *filter.StudentID {
			continue
		}
		out = append(out, grade)
	}

	return out, nil
}

func (r *memGradeRepo) AverageByStudent(ctx context.Context, studentID uuid.UUID) (*float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var sum, count int
	for _, grade := range r.s.grades {
		if grade.StudentID == studentID {
			sum += grade.Value
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	average := float64(sum) / float64(count)

	return &average, nil
}

// --- AttendanceRepository ---

type memAttendanceRepo struct{ s *memStore }

func newMemAttendanceRepo(s *memStore) repository.AttendanceRepository { return &memAttendanceRepo{s} }

func (r *memAttendanceRepo) Upsert(ctx context.Context, record *entity.AttendanceRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.attendance {
		if existing.StudentID == record.StudentID && existing.GroupID == record.GroupID && existing.Date.Equal(record.Date) {
			existing.Status = record.Status

			return nil
		}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	r.s.attendance = append(r.s.attendance, record)

	return nil
}

func (r *memAttendanceRepo) List(ctx context.Context, filter repository.AttendanceFilter) ([]*entity.AttendanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.AttendanceRecord
	for _, record := range r.s.attendance {
		if filter.GroupID != nil && record.GroupID != *filter.GroupID {
			continue
		}
		if filter.StudentID != nil && record.StudentID != *filter.StudentID {
			continue
		}
		if filter.Date != nil && !record.Date.Equal(*filter.Date) {
			continue
		}
		out = append(out, record)
	}

	return out, nil
}

func (r *memAttendanceRepo) RateByStudent(ctx context.Context, studentID uuid.UUID) (*float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var present, total int
	for _, record := range r.s.attendance {
		if record.StudentID != studentID {
			continue
		}
		total++
		if record.Status != entity.AttendanceAbsent {
			present++
		}
	}
	if total == 0 {
		return nil, nil
	}
	rate := float64(present) / float64(total)

	return &rate, nil
}

// --- PaymentRepository ---

type memPaymentRepo struct{ s *memStore }

func newMemPaymentRepo(s *memStore) repository.PaymentRepository { return &memPaymentRepo{s} }

func (r *memPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.s.payments[payment.ID] = payment

	return nil
}

func (r *memPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment, ok := r.s.payments[id]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}

	return payment, nil
}

func (r *memPaymentRepo) List(ctx context.Context, filter repository.PaymentFilter) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.Payment
	for _, payment := range r.s.payments {
		if filter.StudentID != nil && payment.StudentID != *filter.StudentID {
			continue
		}
		if filter.Month != "" && payment.Month != filter.Month {
			continue
		}
		if filter.Status != nil && payment.Status != *filter.Status {
			continue
		}
		out = append(out, payment)
	}

	return out, nil
}

func (r *memPaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.payments[payment.ID]; !ok {
		return repository.ErrPaymentNotFound
	}
	r.s.payments[payment.ID] = payment

	return nil
}

func (r *memPaymentRepo) SumByMonth(ctx context.Context, month string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var sum int64
	for _, payment := range r.s.payments {
		if payment.Month == month && payment.Status == entity.PaymentPaid {
			sum += payment.Amount
		}
	}

	return sum, nil
}

// --- NotificationService ---

type recordingNotifier struct {
	mu      sync.Mutex
	batches [][]string
	titles  []string
}

func (n *recordingNotifier) SendBatchNotification(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, []string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.batches = append(n.batches, tokens)
	n.titles = append(n.titles, title)

	return len(tokens), 0, nil, nil
}

func (n *recordingNotifier) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	return nil
}
