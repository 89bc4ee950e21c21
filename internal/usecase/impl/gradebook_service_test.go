package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"academy/internal/domain/entity"
	domainerrors "academy/internal/domain/errors"
	"academy/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGradebookServiceForTest(store *memStore) usecase.GradebookUsecase {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewGradebookService(store, newMemGradeRepo(store), logger)
}

func TestGradebookService_RecordGrade(t *testing.T) {
	store := newMemStore()
	teacher := store.addProfile(entity.RoleTeacher, entity.StatusApproved, "A Teacher")
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	group := store.addGroup(teacher.ID)
	store.enroll(group.ID, student.ID)
	service := newGradebookServiceForTest(store)

	grade, err := service.RecordGrade(context.Background(), teacher.ID, &usecase.RecordGradeInput{
		StudentID: student.ID,
		GroupID:   group.ID,
		Value:     92,
		Comment:   "good work",
	})

	require.NoError(t, err)
	assert.Equal(t, 92, grade.Value)
	assert.False(t, grade.GradedOn.IsZero())
	require.Len(t, store.grades, 1)
}

func TestGradebookService_RecordGrade_ForeignGroup(t *testing.T) {
	store := newMemStore()
	owner := store.addProfile(entity.RoleTeacher, entity.StatusApproved, "Group Owner")
	other := store.addProfile(entity.RoleTeacher, entity.StatusApproved, "Other Teacher")
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	group := store.addGroup(owner.ID)
	store.enroll(group.ID, student.ID)
	service := newGradebookServiceForTest(store)

	_, err := service.RecordGrade(context.Background(), other.ID, &usecase.RecordGradeInput{
		StudentID: student.ID,
		GroupID:   group.ID,
		Value:     50,
	})

	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Empty(t, store.grades)
}

func TestGradebookService_RecordGrade_NotEnrolled(t *testing.T) {
	store := newMemStore()
	teacher := store.addProfile(entity.RoleTeacher, entity.StatusApproved, "A Teacher")
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	group := store.addGroup(teacher.ID)
	service := newGradebookServiceForTest(store)

	_, err := service.RecordGrade(context.Background(), teacher.ID, &usecase.RecordGradeInput{
		StudentID: student.ID,
		GroupID:   group.ID,
		Value:     50,
	})

	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestGradebookService_ListChildGrades_RequiresLink(t *testing.T) {
	store := newMemStore()
	teacher := store.addProfile(entity.RoleTeacher, entity.StatusApproved, "A Teacher")
	parent := store.addProfile(entity.RoleParent, entity.StatusApproved, "A Parent")
	student := store.addProfile(entity.RoleStudent, entity.StatusApproved, "A Student")
	group := store.addGroup(teacher.ID)
	store.enroll(group.ID, student.ID)
	service := newGradebookServiceForTest(store)

	_, err := service.ListChildGrades(context.Background(), parent.ID, student.ID)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	store.link(parent.ID, student.ID)

	grades, err := service.ListChildGrades(context.Background(), parent.ID, student.ID)
	require.NoError(t, err)
	assert.Empty(t, grades)
}
