package repository

import (
	"context"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/xcontext"
)

// TransactionRepository only appends and reads. The ledger has no update or
// delete operation on purpose.
type TransactionRepository interface {
	Create(ctx context.Context, data *entity.Transaction) error
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Transaction, error)
	GetListByRelatedID(ctx context.Context, relatedID string) ([]entity.Transaction, error)
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, data *entity.Transaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *transactionRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Transaction, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Offset(offset)

	if limit > 0 {
		tx.Limit(limit)
	}

	var result []entity.Transaction
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *transactionRepository) GetListByRelatedID(
	ctx context.Context, relatedID string,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).Where("related_id=?", relatedID).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
