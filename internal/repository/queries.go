package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoRowsAffected signals that a conditional update matched no row. For a
// guarded debit this means either the wallet is missing or its balance was
// concurrently consumed; callers distinguish the two with WalletExists
// inside the same transaction.
var ErrNoRowsAffected = errors.New("no rows affected")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query set
// runs inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is the PostgreSQL query set.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a query set scoped to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

func (q *Queries) CreateUser(ctx context.Context, user *models.User) error {
	const query = `
		INSERT INTO users (id, username, email, phone_number, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`
	err := q.db.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.PhoneNumber, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const query = `
		SELECT id, username, email, phone_number, password_hash, role, created_at
		FROM users WHERE id = $1`
	user := &models.User{}
	err := q.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PhoneNumber, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByLogin resolves a user by email or phone number, matching the
// login semantics of the public API.
func (q *Queries) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const query = `
		SELECT id, username, email, phone_number, password_hash, role, created_at
		FROM users WHERE email = $1 OR phone_number = $1
		LIMIT 1`
	user := &models.User{}
	err := q.db.QueryRow(ctx, query, login).Scan(
		&user.ID, &user.Username, &user.Email, &user.PhoneNumber, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return user, nil
}

// FindUserConflict returns an existing user that collides with any of the
// given unique attributes, or ErrUserNotFound when registration is clear.
func (q *Queries) FindUserConflict(ctx context.Context, email, username, phone string) (*models.User, error) {
	const query = `
		SELECT id, username, email, phone_number, password_hash, role, created_at
		FROM users WHERE email = $1 OR username = $2 OR phone_number = $3
		LIMIT 1`
	user := &models.User{}
	err := q.db.QueryRow(ctx, query, email, username, phone).Scan(
		&user.ID, &user.Username, &user.Email, &user.PhoneNumber, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user conflict: %w", err)
	}
	return user, nil
}

func (q *Queries) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	const query = `
		INSERT INTO wallets (user_id, balance, currency, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at`
	err := q.db.QueryRow(ctx, query, wallet.UserID, wallet.Balance, wallet.Currency).Scan(&wallet.CreatedAt)
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

func (q *Queries) GetWallet(ctx context.Context, ownerID uuid.UUID) (*models.Wallet, error) {
	const query = `SELECT user_id, balance, currency, created_at FROM wallets WHERE user_id = $1`
	wallet := &models.Wallet{}
	err := q.db.QueryRow(ctx, query, ownerID).Scan(&wallet.UserID, &wallet.Balance, &wallet.Currency, &wallet.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return wallet, nil
}

func (q *Queries) WalletExists(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1)`
	var exists bool
	if err := q.db.QueryRow(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("wallet exists: %w", err)
	}
	return exists, nil
}

type AdjustBalanceParams struct {
	OwnerID uuid.UUID
	Delta   int64
	// RequireSufficient guards the update so it only applies while the
	// resulting balance stays non-negative.
	RequireSufficient bool
}

// AdjustedWallet is the committed state returned by a successful adjustment.
type AdjustedWallet struct {
	Balance  int64
	Currency string
}

// AdjustBalance applies a signed delta to a wallet as a single conditional
// update. The predicate is evaluated at write time under the row lock, which
// closes the read-check-write race between concurrent debits. Zero rows
// matched surfaces as ErrNoRowsAffected.
func (q *Queries) AdjustBalance(ctx context.Context, arg AdjustBalanceParams) (AdjustedWallet, error) {
	const adjust = `
		UPDATE wallets SET balance = balance + $1
		WHERE user_id = $2
		RETURNING balance, currency`
	const adjustGuarded = `
		UPDATE wallets SET balance = balance + $1
		WHERE user_id = $2 AND balance + $1 >= 0
		RETURNING balance, currency`

	query := adjust
	if arg.RequireSufficient {
		query = adjustGuarded
	}

	var out AdjustedWallet
	err := q.db.QueryRow(ctx, query, arg.Delta, arg.OwnerID).Scan(&out.Balance, &out.Currency)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AdjustedWallet{}, ErrNoRowsAffected
		}
		return AdjustedWallet{}, fmt.Errorf("adjust balance: %w", err)
	}
	return out, nil
}

// AppendTransaction writes one immutable ledger entry. It performs no
// business validation; it must run in the same transaction as the balance
// mutation it documents.
func (q *Queries) AppendTransaction(ctx context.Context, entry *models.Transaction) error {
	const query = `
		INSERT INTO transactions (amount, type, from_user_id, to_user_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`
	err := q.db.QueryRow(ctx, query, entry.Amount, entry.Type, entry.FromUserID, entry.ToUserID).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

func (q *Queries) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	const query = `
		SELECT id, amount, type, from_user_id, to_user_id, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Amount, &t.Type, &t.FromUserID, &t.ToUserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// TotalWalletBalance returns the sum of all wallet balances.
func (q *Queries) TotalWalletBalance(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(SUM(balance), 0) FROM wallets`
	var total int64
	if err := q.db.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("total wallet balance: %w", err)
	}
	return total, nil
}

// LedgerNetFlow returns funds created minus funds destroyed: the net of all
// FUND and WITHDRAW entries. Transfers net to zero and are excluded.
func (q *Queries) LedgerNetFlow(ctx context.Context) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(CASE type
			WHEN 'FUND' THEN amount
			WHEN 'WITHDRAW' THEN -amount
			ELSE 0 END), 0)
		FROM transactions`
	var net int64
	if err := q.db.QueryRow(ctx, query).Scan(&net); err != nil {
		return 0, fmt.Errorf("ledger net flow: %w", err)
	}
	return net, nil
}
