package repository

import (
	"context"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/xcontext"
)

type FamilyRepository interface {
	Create(ctx context.Context, data *entity.Family) error
	GetByID(ctx context.Context, id string) (*entity.Family, error)
	GetByJoinCode(ctx context.Context, code string) (*entity.Family, error)
}

type familyRepository struct{}

func NewFamilyRepository() *familyRepository {
	return &familyRepository{}
}

func (r *familyRepository) Create(ctx context.Context, data *entity.Family) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *familyRepository) GetByID(ctx context.Context, id string) (*entity.Family, error) {
	var result entity.Family
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *familyRepository) GetByJoinCode(ctx context.Context, code string) (*entity.Family, error) {
	var result entity.Family
	if err := xcontext.DB(ctx).Take(&result, "join_code=?", code).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
