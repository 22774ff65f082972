package domain

import (
	"context"

	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/xcontext"
)

type TransactionDomain interface {
	GetMy(context.Context, *model.GetMyTransactionsRequest) (*model.GetMyTransactionsResponse, error)
}

type transactionDomain struct {
	transactionRepo repository.TransactionRepository
}

func NewTransactionDomain(transactionRepo repository.TransactionRepository) *transactionDomain {
	return &transactionDomain{transactionRepo: transactionRepo}
}

func (d *transactionDomain) GetMy(
	ctx context.Context, req *model.GetMyTransactionsRequest,
) (*model.GetMyTransactionsResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	transactions, err := d.transactionRepo.GetListByUserID(
		ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	modelTransactions := []model.Transaction{}
	for i := range transactions {
		modelTransactions = append(modelTransactions, model.ConvertTransaction(&transactions[i]))
	}

	return &model.GetMyTransactionsResponse{Transactions: modelTransactions}, nil
}
