package repository

import (
	"context"
	"os"
	"testing"

	"github.com/Profanor/bullafric-fintech-api/internal/db"
	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}
	pool, err := db.Connect(context.Background(), os.Getenv("DATABASE_URL"))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedPgWallet(t *testing.T, store *PostgresStore, balance int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	q := store.Queries()

	id := uuid.New()
	require.NoError(t, q.CreateUser(ctx, &models.User{
		ID:           id,
		Username:     "it_" + id.String()[:8],
		Email:        "it_" + id.String()[:8] + "@example.com",
		PhoneNumber:  "+234" + id.String()[:8],
		PasswordHash: "x",
		Role:         "user",
	}))
	require.NoError(t, q.CreateWallet(ctx, &models.Wallet{
		UserID:   id,
		Balance:  0,
		Currency: "NGN",
	}))

	if balance > 0 {
		_, err := q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: id, Delta: balance})
		require.NoError(t, err)
		require.NoError(t, q.AppendTransaction(ctx, &models.Transaction{
			Amount:   balance,
			Type:     "FUND",
			ToUserID: &id,
		}))
	}
	return id
}

func TestPostgresGuardedAdjust(t *testing.T) {
	pool := connectTestDB(t)
	store := NewStore(pool)
	ctx := context.Background()

	owner := seedPgWallet(t, store, 100)

	_, err := store.Queries().AdjustBalance(ctx, AdjustBalanceParams{
		OwnerID:           owner,
		Delta:             -500,
		RequireSufficient: true,
	})
	assert.ErrorIs(t, err, ErrNoRowsAffected)

	adjusted, err := store.Queries().AdjustBalance(ctx, AdjustBalanceParams{
		OwnerID:           owner,
		Delta:             -100,
		RequireSufficient: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), adjusted.Balance)
}

func TestPostgresRunInTxRollsBack(t *testing.T) {
	pool := connectTestDB(t)
	store := NewStore(pool)
	ctx := context.Background()

	owner := seedPgWallet(t, store, 100)

	err := store.RunInTx(ctx, func(q Querier) error {
		if _, err := q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: owner, Delta: 500}); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	wallet, err := store.Queries().GetWallet(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Balance)
}

func TestPostgresUserLookups(t *testing.T) {
	pool := connectTestDB(t)
	store := NewStore(pool)
	ctx := context.Background()

	owner := seedPgWallet(t, store, 0)
	q := store.Queries()

	user, err := q.GetUserByID(ctx, owner)
	require.NoError(t, err)

	byEmail, err := q.GetUserByLogin(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, owner, byEmail.ID)

	byPhone, err := q.GetUserByLogin(ctx, user.PhoneNumber)
	require.NoError(t, err)
	assert.Equal(t, owner, byPhone.ID)

	_, err = q.GetUserByLogin(ctx, "missing@example.com")
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	exists, err := q.WalletExists(ctx, owner)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = q.WalletExists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPostgresDuplicateUser(t *testing.T) {
	pool := connectTestDB(t)
	store := NewStore(pool)
	ctx := context.Background()

	owner := seedPgWallet(t, store, 0)
	user, err := store.Queries().GetUserByID(ctx, owner)
	require.NoError(t, err)

	err = store.Queries().CreateUser(ctx, &models.User{
		ID:       uuid.New(),
		Username: user.Username,
		Email:    "other_" + uuid.NewString()[:8] + "@example.com",
	})
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestPostgresListTransactions(t *testing.T) {
	pool := connectTestDB(t)
	store := NewStore(pool)
	ctx := context.Background()

	a := seedPgWallet(t, store, 1000)
	b := seedPgWallet(t, store, 0)
	q := store.Queries()

	_, err := q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: a, Delta: -300, RequireSufficient: true})
	require.NoError(t, err)
	_, err = q.AdjustBalance(ctx, AdjustBalanceParams{OwnerID: b, Delta: 300})
	require.NoError(t, err)
	require.NoError(t, q.AppendTransaction(ctx, &models.Transaction{
		Amount:     300,
		Type:       "TRANSFER",
		FromUserID: &a,
		ToUserID:   &b,
	}))

	aEntries, err := q.ListTransactions(ctx, a, 10, 0)
	require.NoError(t, err)
	require.Len(t, aEntries, 2)
	assert.Equal(t, "TRANSFER", aEntries[0].Type)
	assert.Equal(t, "FUND", aEntries[1].Type)

	bEntries, err := q.ListTransactions(ctx, b, 10, 0)
	require.NoError(t, err)
	require.Len(t, bEntries, 1)
	assert.Equal(t, aEntries[0].ID, bEntries[0].ID)
}
