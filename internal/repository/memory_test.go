package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemWallet(t *testing.T, store *MemoryStore, balance int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	q := store.Queries()

	id := uuid.New()
	require.NoError(t, q.CreateUser(ctx, &models.User{
		ID:       id,
		Username: "u_" + id.String()[:8],
		Email:    "u_" + id.String()[:8] + "@example.com",
	}))
	require.NoError(t, q.CreateWallet(ctx, &models.Wallet{
		UserID:   id,
		Balance:  balance,
		Currency: "NGN",
	}))
	return id
}

func TestMemoryAdjustBalanceGuard(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := seedMemWallet(t, store, 100)

	// Guarded debit past zero reports no rows.
	_, err := store.Queries().AdjustBalance(ctx, AdjustBalanceParams{
		OwnerID:           owner,
		Delta:             -200,
		RequireSufficient: true,
	})
	assert.ErrorIs(t, err, ErrNoRowsAffected)

	// Guarded debit to exactly zero succeeds.
	adjusted, err := store.Queries().AdjustBalance(ctx, AdjustBalanceParams{
		OwnerID:           owner,
		Delta:             -100,
		RequireSufficient: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), adjusted.Balance)
	assert.Equal(t, "NGN", adjusted.Currency)

	// Unknown wallet reports no rows regardless of the guard.
	_, err = store.Queries().AdjustBalance(ctx, AdjustBalanceParams{OwnerID: uuid.New(), Delta: 10})
	assert.ErrorIs(t, err, ErrNoRowsAffected)
}

func TestMemoryRunInTxRollsBackOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := seedMemWallet(t, store, 100)

	boom := errors.New("boom")
	err := store.RunInTx(ctx, func(q Querier) error {
		if _, err := q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: owner, Delta: 50}); err != nil {
			return err
		}
		if err := q.AppendTransaction(ctx, &models.Transaction{
			Amount:   50,
			Type:     "FUND",
			ToUserID: &owner,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	wallet, err := store.Queries().GetWallet(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Balance, "failed transaction must restore the balance")

	entries, err := store.Queries().ListTransactions(ctx, owner, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed transaction must not leave ledger entries")
}

func TestMemoryListTransactionsPagination(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	owner := seedMemWallet(t, store, 0)

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, store.Queries().AppendTransaction(ctx, &models.Transaction{
			Amount:   i * 10,
			Type:     "FUND",
			ToUserID: &owner,
		}))
	}

	first, err := store.Queries().ListTransactions(ctx, owner, 2, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(50), first[0].Amount, "newest entry first")
	assert.Equal(t, int64(40), first[1].Amount)

	second, err := store.Queries().ListTransactions(ctx, owner, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, int64(30), second[0].Amount)

	beyond, err := store.Queries().ListTransactions(ctx, owner, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestMemoryConservationQueries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	a := seedMemWallet(t, store, 0)
	b := seedMemWallet(t, store, 0)

	q := store.Queries()
	_, err := q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: a, Delta: 900})
	require.NoError(t, err)
	require.NoError(t, q.AppendTransaction(ctx, &models.Transaction{Amount: 900, Type: "FUND", ToUserID: &a}))

	_, err = q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: a, Delta: -300, RequireSufficient: true})
	require.NoError(t, err)
	_, err = q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: b, Delta: 300})
	require.NoError(t, err)
	require.NoError(t, q.AppendTransaction(ctx, &models.Transaction{Amount: 300, Type: "TRANSFER", FromUserID: &a, ToUserID: &b}))

	total, err := q.TotalWalletBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(900), total)

	net, err := q.LedgerNetFlow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(900), net, "transfers are internal and do not change net flow")
}
