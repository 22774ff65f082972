package repository

import (
	"context"
	"time"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type QuestInstanceFilter struct {
	FamilyID     string
	Status       []entity.QuestStatus
	AssignedToID string
	QuestType    entity.QuestType
	Offset       int
	Limit        int
}

type QuestInstanceRepository interface {
	Create(ctx context.Context, data *entity.QuestInstance) error
	GetByID(ctx context.Context, id string) (*entity.QuestInstance, error)
	GetList(ctx context.Context, filter QuestInstanceFilter) ([]entity.QuestInstance, error)
	GetOverdue(ctx context.Context, now time.Time) ([]entity.QuestInstance, error)

	// Claim is the compare-and-swap transition AVAILABLE -> CLAIMED. The
	// update is conditioned on the row still being available at write time,
	// so exactly one of two racing claimants wins; the loser observes
	// gorm.ErrRecordNotFound.
	Claim(ctx context.Context, id, userID, characterID string, bonus float64) error

	// Assign is Claim without the volunteer fields, for manual GM assignment.
	Assign(ctx context.Context, id, userID string) error

	// ReleaseClaim clears all claim fields and returns the quest to
	// AVAILABLE. Used both by release and as the compensating action when
	// the claim saga fails halfway.
	ReleaseClaim(ctx context.Context, id string) error

	// UpdateStatus transitions from -> to; zero rows affected reports
	// gorm.ErrRecordNotFound so callers can surface a precondition error.
	UpdateStatus(ctx context.Context, id string, from, to entity.QuestStatus) error

	MarkCompleted(ctx context.Context, id string, from entity.QuestStatus, completedAt time.Time) error
	Approve(ctx context.Context, id string, approvedAt time.Time) error
	Deny(ctx context.Context, id string) error
	Expire(ctx context.Context, id string, to entity.QuestStatus) error
	Delete(ctx context.Context, id string) error
}

type questInstanceRepository struct{}

func NewQuestInstanceRepository() *questInstanceRepository {
	return &questInstanceRepository{}
}

func (r *questInstanceRepository) Create(ctx context.Context, data *entity.QuestInstance) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questInstanceRepository) GetByID(ctx context.Context, id string) (*entity.QuestInstance, error) {
	var result entity.QuestInstance
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questInstanceRepository) GetList(
	ctx context.Context, filter QuestInstanceFilter,
) ([]entity.QuestInstance, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.QuestInstance{}).
		Order("created_at DESC").
		Offset(filter.Offset)

	if filter.Limit > 0 {
		tx.Limit(filter.Limit)
	}

	if filter.FamilyID != "" {
		tx.Where("family_id=?", filter.FamilyID)
	}

	if len(filter.Status) > 0 {
		tx.Where("status IN (?)", filter.Status)
	}

	if filter.AssignedToID != "" {
		tx.Where("assigned_to_id=?", filter.AssignedToID)
	}

	if filter.QuestType != "" {
		tx.Where("quest_type=?", filter.QuestType)
	}

	var result []entity.QuestInstance
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questInstanceRepository) GetOverdue(
	ctx context.Context, now time.Time,
) ([]entity.QuestInstance, error) {
	var result []entity.QuestInstance
	err := xcontext.DB(ctx).
		Where("cycle_end_date IS NOT NULL AND cycle_end_date < ?", now).
		Where("status NOT IN (?)", entity.QuestTerminalStatuses).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questInstanceRepository) Claim(
	ctx context.Context, id, userID, characterID string, bonus float64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=? AND status=? AND quest_type=?",
			id, entity.QuestAvailable, entity.QuestFamily).
		Updates(map[string]any{
			"status":          entity.QuestClaimed,
			"assigned_to_id":  userID,
			"volunteered_by":  characterID,
			"volunteer_bonus": bonus,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questInstanceRepository) Assign(ctx context.Context, id, userID string) error {
	tx := xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=? AND status=? AND quest_type=?",
			id, entity.QuestAvailable, entity.QuestFamily).
		Updates(map[string]any{
			"status":          entity.QuestClaimed,
			"assigned_to_id":  userID,
			"volunteered_by":  nil,
			"volunteer_bonus": nil,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questInstanceRepository) ReleaseClaim(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=?", id).
		Updates(map[string]any{
			"status":          entity.QuestAvailable,
			"assigned_to_id":  nil,
			"volunteered_by":  nil,
			"volunteer_bonus": nil,
		}).Error
}

func (r *questInstanceRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.QuestStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questInstanceRepository) MarkCompleted(
	ctx context.Context, id string, from entity.QuestStatus, completedAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=? AND status=?", id, from).
		Updates(map[string]any{
			"status":       entity.QuestCompleted,
			"completed_at": completedAt,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questInstanceRepository) Approve(ctx context.Context, id string, approvedAt time.Time) error {
	tx := xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=? AND status=?", id, entity.QuestCompleted).
		Updates(map[string]any{
			"status":      entity.QuestApproved,
			"approved_at": approvedAt,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questInstanceRepository) Deny(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=? AND status=?", id, entity.QuestCompleted).
		Updates(map[string]any{
			"status":       entity.QuestPending,
			"completed_at": nil,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questInstanceRepository) Expire(
	ctx context.Context, id string, to entity.QuestStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.QuestInstance{}).
		Where("id=? AND status NOT IN (?)", id, entity.QuestTerminalStatuses).
		Update("status", to)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *questInstanceRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Unscoped().Delete(&entity.QuestInstance{Base: entity.Base{ID: id}}).Error
}
