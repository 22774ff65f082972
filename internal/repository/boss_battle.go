package repository

import (
	"context"
	"time"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type BossBattleRepository interface {
	Create(ctx context.Context, data *entity.BossBattle) error
	GetByID(ctx context.Context, id string) (*entity.BossBattle, error)
	GetListByFamilyID(ctx context.Context, familyID string) ([]entity.BossBattle, error)

	AddParticipant(ctx context.Context, data *entity.BossBattleParticipant) error
	GetParticipants(ctx context.Context, bossBattleID string) ([]entity.BossBattleParticipant, error)
	UpdateParticipantAward(ctx context.Context, data *entity.BossBattleParticipant) error

	// MarkDefeated flips the battle to DEFEATED and raises the
	// rewards_distributed guard. Conditioned on the guard still being down,
	// so concurrent completions cannot both succeed.
	MarkDefeated(ctx context.Context, id string, defeatedAt time.Time) error

	ExtendJoinWindow(ctx context.Context, id string, expiresAt time.Time) error
}

type bossBattleRepository struct{}

func NewBossBattleRepository() *bossBattleRepository {
	return &bossBattleRepository{}
}

func (r *bossBattleRepository) Create(ctx context.Context, data *entity.BossBattle) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bossBattleRepository) GetByID(ctx context.Context, id string) (*entity.BossBattle, error) {
	var result entity.BossBattle
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *bossBattleRepository) GetListByFamilyID(
	ctx context.Context, familyID string,
) ([]entity.BossBattle, error) {
	var result []entity.BossBattle
	err := xcontext.DB(ctx).
		Where("family_id=?", familyID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *bossBattleRepository) AddParticipant(
	ctx context.Context, data *entity.BossBattleParticipant,
) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bossBattleRepository) GetParticipants(
	ctx context.Context, bossBattleID string,
) ([]entity.BossBattleParticipant, error) {
	var result []entity.BossBattleParticipant
	err := xcontext.DB(ctx).
		Preload("User").
		Where("boss_battle_id=?", bossBattleID).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *bossBattleRepository) UpdateParticipantAward(
	ctx context.Context, data *entity.BossBattleParticipant,
) error {
	tx := xcontext.DB(ctx).Model(&entity.BossBattleParticipant{}).
		Where("boss_battle_id=? AND user_id=?", data.BossBattleID, data.UserID).
		Updates(map[string]any{
			"participation_status": data.ParticipationStatus,
			"awarded_gold":         data.AwardedGold,
			"awarded_xp":           data.AwardedXP,
			"honor_awarded":        data.HonorAwarded,
			"approved_at":          data.ApprovedAt,
			"approved_by":          data.ApprovedBy,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *bossBattleRepository) MarkDefeated(ctx context.Context, id string, defeatedAt time.Time) error {
	tx := xcontext.DB(ctx).Model(&entity.BossBattle{}).
		Where("id=? AND rewards_distributed=?", id, false).
		Updates(map[string]any{
			"status":              entity.BossBattleDefeated,
			"rewards_distributed": true,
			"defeated_at":         defeatedAt,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *bossBattleRepository) ExtendJoinWindow(
	ctx context.Context, id string, expiresAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.BossBattle{}).
		Where("id=?", id).
		Updates(map[string]any{
			"status":                 entity.BossBattleActive,
			"join_window_expires_at": expiresAt,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
