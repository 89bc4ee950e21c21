package postgres

import (
	"context"
	"strings"

	"academy/internal/domain/entity"
	"academy/internal/domain/repository"
	"academy/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// groupRepository implements repository.GroupRepository using GORM.
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository is the constructor for groupRepository.
func NewGroupRepository(db *gorm.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

// Create persists a new group.
func (repo *groupRepository) Create(ctx context.Context, group *entity.Group) error {
	groupM := fromGroupDomain(group)

	if err := repo.db.WithContext(ctx).Create(groupM).Error; err != nil {
		return errors.Wrap(err, "failed to create group")
	}

	group.ID = groupM.ID
	group.CreatedAt = groupM.CreatedAt
	group.UpdatedAt = groupM.UpdatedAt

	return nil
}

// FindByID retrieves a group with its subject and teacher preloaded.
func (repo *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var groupM model.GroupModel
	err := repo.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		First(&groupM, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGroupNotFound
		}

		return nil, errors.Wrap(err, "failed to find group by id")
	}

	return toGroupDomain(&groupM), nil
}

// List returns all groups with subject and teacher preloaded.
func (repo *groupRepository) List(ctx context.Context) ([]*entity.Group, error) {
	var groupMs []*model.GroupModel
	err := repo.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Order("name ASC").
		Find(&groupMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups")
	}

	return toGroupDomains(groupMs), nil
}

// ListByTeacher returns the groups run by the given teacher profile.
func (repo *groupRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*entity.Group, error) {
	var groupMs []*model.GroupModel
	err := repo.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Where("teacher_id = ?", teacherID).
		Order("name ASC").
		Find(&groupMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list groups by teacher")
	}

	return toGroupDomains(groupMs), nil
}

// Update persists changes to an existing group.
func (repo *groupRepository) Update(ctx context.Context, group *entity.Group) error {
	groupM := fromGroupDomain(group)

	if err := repo.db.WithContext(ctx).Save(groupM).Error; err != nil {
		return errors.Wrap(err, "failed to update group")
	}

	group.UpdatedAt = groupM.UpdatedAt

	return nil
}

// Delete removes a group and its enrollments.
func (repo *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("group_id = ?", id).
		Delete(&model.EnrollmentModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete group enrollments")
	}

	result := repo.db.WithContext(ctx).Delete(&model.GroupModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete group")
	}
	if result.RowsAffected == 0 {
		return repository.ErrGroupNotFound
	}

	return nil
}

// Count returns the number of groups.
func (repo *groupRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.GroupModel{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count groups")
	}

	return count, nil
}

func toGroupDomains(data []*model.GroupModel) []*entity.Group {
	groups := make([]*entity.Group, 0, len(data))
	for _, groupM := range data {
		groups = append(groups, toGroupDomain(groupM))
	}

	return groups
}

func toGroupDomain(data *model.GroupModel) *entity.Group {
	if data == nil {
		return nil
	}

	var days []string
	if data.Days != "" {
		days = strings.Split(data.Days, ",")
	}

	return &entity.Group{
		ID:        data.ID,
		Name:      data.Name,
		SubjectID: data.SubjectID,
		TeacherID: data.TeacherID,
		Room:      data.Room,
		Days:      days,
		StartTime: data.StartTime,
		EndTime:   data.EndTime,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
		Subject:   toSubjectDomain(data.Subject),
		Teacher:   toProfileDomain(data.Teacher),
	}
}

func fromGroupDomain(data *entity.Group) *model.GroupModel {
	return &model.GroupModel{
		ID:        data.ID,
		Name:      data.Name,
		SubjectID: data.SubjectID,
		TeacherID: data.TeacherID,
		Room:      data.Room,
		Days:      strings.Join(data.Days, ","),
		StartTime: data.StartTime,
		EndTime:   data.EndTime,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
