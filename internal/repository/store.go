package repository

import (
	"context"
	"fmt"

	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the data access contract consumed by services. *Queries
// implements it against PostgreSQL; MemoryStore provides an in-process
// implementation for tests.
type Querier interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	FindUserConflict(ctx context.Context, email, username, phone string) (*models.User, error)

	CreateWallet(ctx context.Context, wallet *models.Wallet) error
	GetWallet(ctx context.Context, ownerID uuid.UUID) (*models.Wallet, error)
	WalletExists(ctx context.Context, ownerID uuid.UUID) (bool, error)
	AdjustBalance(ctx context.Context, arg AdjustBalanceParams) (AdjustedWallet, error)

	AppendTransaction(ctx context.Context, entry *models.Transaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
	TotalWalletBalance(ctx context.Context) (int64, error)
	LedgerNetFlow(ctx context.Context) (int64, error)
}

// Store provides query access and transaction scoping. Every balance
// mutation and its ledger entry must go through RunInTx so they commit or
// roll back as one unit.
type Store interface {
	Queries() Querier
	RunInTx(ctx context.Context, fn func(q Querier) error) error
}

// PostgresStore is the production Store backed by a pgx connection pool.
type PostgresStore struct {
	db      *pgxpool.Pool
	queries *Queries
}

func NewStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:      db,
		queries: New(db),
	}
}

// Queries returns the non-transactional query set.
func (s *PostgresStore) Queries() Querier {
	return s.queries
}

// RunInTx executes fn within a database transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
