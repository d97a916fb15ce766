package service

import (
	"context"
	"testing"

	"github.com/Profanor/bullafric-fintech-api/internal/domain"
	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/Profanor/bullafric-fintech-api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestStore() *repository.MemoryStore {
	return repository.NewMemoryStore()
}

// seedWallet creates a user with a wallet holding the given balance and a
// matching FUND entry so the ledger stays consistent with balances.
func seedWallet(t *testing.T, store *repository.MemoryStore, balance int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	q := store.Queries()

	id := uuid.New()
	err := q.CreateUser(ctx, &models.User{
		ID:           id,
		Username:     "user_" + id.String()[:8],
		Email:        "user_" + id.String()[:8] + "@example.com",
		PhoneNumber:  "+234" + id.String()[:8],
		PasswordHash: "x",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)

	err = q.CreateWallet(ctx, &models.Wallet{
		UserID:   id,
		Balance:  balance,
		Currency: domain.DefaultCurrency,
	})
	require.NoError(t, err)

	if balance > 0 {
		err = q.AppendTransaction(ctx, &models.Transaction{
			Amount:   balance,
			Type:     domain.TxTypeFund,
			ToUserID: &id,
		})
		require.NoError(t, err)
	}
	return id
}

// requireConservation asserts that wallet balances equal the ledger's net
// external flow.
func requireConservation(t *testing.T, store *repository.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	q := store.Queries()

	total, err := q.TotalWalletBalance(ctx)
	require.NoError(t, err)
	net, err := q.LedgerNetFlow(ctx)
	require.NoError(t, err)
	require.Equal(t, net, total, "wallet balances must equal ledger net flow")
}
