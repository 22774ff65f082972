package repository

import (
	"context"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetListByFamilyID(ctx context.Context, familyID string) ([]entity.User, error)
	UpdateRole(ctx context.Context, id string, role entity.UserRole) error
	UpdateFamily(ctx context.Context, id, familyID string, role entity.UserRole) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetListByFamilyID(ctx context.Context, familyID string) ([]entity.User, error) {
	var result []entity.User
	if err := xcontext.DB(ctx).Find(&result, "family_id=?", familyID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role entity.UserRole) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("role", role).Error
}

func (r *userRepository) UpdateFamily(ctx context.Context, id, familyID string, role entity.UserRole) error {
	return xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Updates(map[string]any{"family_id": familyID, "role": role}).Error
}
