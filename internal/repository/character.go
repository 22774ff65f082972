package repository

import (
	"context"
	"errors"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CharacterRepository interface {
	Create(ctx context.Context, data *entity.Character) error
	GetByID(ctx context.Context, id string) (*entity.Character, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Character, error)
	GetListByFamilyID(ctx context.Context, familyID string) ([]entity.Character, error)

	// SetActiveFamilyQuest points the character at questID. It fails with
	// gorm.ErrRecordNotFound if the character already holds an active family
	// quest, which is how the anti-hoarding invariant is enforced at write
	// time.
	SetActiveFamilyQuest(ctx context.Context, characterID, questID string) error

	// ClearActiveFamilyQuest resets the pointer, but only when it still
	// points at questID. Clearing an unrelated claim is a silent no-op.
	ClearActiveFamilyQuest(ctx context.Context, characterID, questID string) error

	// ApplyRewards increments the four currencies and sets the level.
	ApplyRewards(ctx context.Context, characterID string, gold, xp, gems, honor int64, level int) error

	IncreaseStreak(ctx context.Context, characterID string) error
	ResetStreak(ctx context.Context, characterID string) error
}

type characterRepository struct{}

func NewCharacterRepository() *characterRepository {
	return &characterRepository{}
}

func (r *characterRepository) Create(ctx context.Context, data *entity.Character) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *characterRepository) GetByID(ctx context.Context, id string) (*entity.Character, error) {
	var result entity.Character
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *characterRepository) GetByUserID(ctx context.Context, userID string) (*entity.Character, error) {
	var result entity.Character
	err := xcontext.DB(ctx).Preload("User").Take(&result, "user_id=?", userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *characterRepository) GetListByFamilyID(ctx context.Context, familyID string) ([]entity.Character, error) {
	var result []entity.Character
	err := xcontext.DB(ctx).Preload("User").Where("family_id=?", familyID).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *characterRepository) SetActiveFamilyQuest(ctx context.Context, characterID, questID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Character{}).
		Where("id=? AND active_family_quest_id IS NULL", characterID).
		Update("active_family_quest_id", questID)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *characterRepository) ClearActiveFamilyQuest(ctx context.Context, characterID, questID string) error {
	return xcontext.DB(ctx).Model(&entity.Character{}).
		Where("id=? AND active_family_quest_id=?", characterID, questID).
		Update("active_family_quest_id", nil).Error
}

func (r *characterRepository) ApplyRewards(
	ctx context.Context, characterID string, gold, xp, gems, honor int64, level int,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Character{}).
		Where("id=?", characterID).
		Updates(map[string]any{
			"gold":         gorm.Expr("gold + ?", gold),
			"xp":           gorm.Expr("xp + ?", xp),
			"gems":         gorm.Expr("gems + ?", gems),
			"honor_points": gorm.Expr("honor_points + ?", honor),
			"level":        level,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

func (r *characterRepository) IncreaseStreak(ctx context.Context, characterID string) error {
	return xcontext.DB(ctx).Model(&entity.Character{}).
		Where("id=?", characterID).
		Update("streak_count", gorm.Expr("streak_count + 1")).Error
}

func (r *characterRepository) ResetStreak(ctx context.Context, characterID string) error {
	return xcontext.DB(ctx).Model(&entity.Character{}).
		Where("id=?", characterID).
		Update("streak_count", 0).Error
}
