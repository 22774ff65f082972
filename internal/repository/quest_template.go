package repository

import (
	"context"
	"time"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/xcontext"
)

type QuestTemplateRepository interface {
	Create(ctx context.Context, data *entity.QuestTemplate) error
	GetByID(ctx context.Context, id string) (*entity.QuestTemplate, error)
	GetActive(ctx context.Context) ([]entity.QuestTemplate, error)
	UpdateLastGeneratedAt(ctx context.Context, id string, t time.Time) error
}

type questTemplateRepository struct{}

func NewQuestTemplateRepository() *questTemplateRepository {
	return &questTemplateRepository{}
}

func (r *questTemplateRepository) Create(ctx context.Context, data *entity.QuestTemplate) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questTemplateRepository) GetByID(ctx context.Context, id string) (*entity.QuestTemplate, error) {
	var result entity.QuestTemplate
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questTemplateRepository) GetActive(ctx context.Context) ([]entity.QuestTemplate, error) {
	var result []entity.QuestTemplate
	err := xcontext.DB(ctx).
		Where("is_active=? AND is_paused=?", true, false).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questTemplateRepository) UpdateLastGeneratedAt(
	ctx context.Context, id string, t time.Time,
) error {
	return xcontext.DB(ctx).Model(&entity.QuestTemplate{}).
		Where("id=?", id).
		Update("last_generated_at", t).Error
}
