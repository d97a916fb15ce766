package service

import (
	"context"

	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/Profanor/bullafric-fintech-api/internal/repository"
	"github.com/google/uuid"
)

type TransactionService struct {
	store repository.Store
}

func NewTransactionService(store repository.Store) *TransactionService {
	return &TransactionService{store: store}
}

// ListForUser returns ledger entries where the user is source or
// destination, newest first.
func (s *TransactionService) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.Transaction, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.store.Queries().ListTransactions(ctx, userID, pageSize, offset)
}
