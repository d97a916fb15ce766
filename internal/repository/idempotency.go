package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// IdempotencyKeyRow mirrors one row of idempotency_keys.
type IdempotencyKeyRow struct {
	IdempotencyKey string
	RequestHash    string
	ResponseStatus int32
	ResponseBody   []byte
	ContentType    string
	InProgress     bool
}

func (q *Queries) GetIdempotencyKey(ctx context.Context, key string) (IdempotencyKeyRow, error) {
	const query = `
		SELECT idempotency_key, request_hash, COALESCE(response_status, 0),
		       COALESCE(response_body, ''::bytea), COALESCE(content_type, ''), in_progress
		FROM idempotency_keys WHERE idempotency_key = $1`
	var row IdempotencyKeyRow
	err := q.db.QueryRow(ctx, query, key).Scan(
		&row.IdempotencyKey, &row.RequestHash, &row.ResponseStatus,
		&row.ResponseBody, &row.ContentType, &row.InProgress,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return IdempotencyKeyRow{}, pgx.ErrNoRows
		}
		return IdempotencyKeyRow{}, fmt.Errorf("get idempotency key: %w", err)
	}
	return row, nil
}

type ReserveIdempotencyKeyParams struct {
	IdempotencyKey string
	RequestHash    string
	Method         string
	Path           string
}

// ReserveIdempotencyKey claims a key for the current request. It returns
// pgx.ErrNoRows when another request already holds the key.
func (q *Queries) ReserveIdempotencyKey(ctx context.Context, arg ReserveIdempotencyKeyParams) (string, error) {
	const query = `
		INSERT INTO idempotency_keys (idempotency_key, request_hash, method, path, in_progress, created_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW())
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING idempotency_key`
	var key string
	err := q.db.QueryRow(ctx, query, arg.IdempotencyKey, arg.RequestHash, arg.Method, arg.Path).Scan(&key)
	if err != nil {
		return "", err
	}
	return key, nil
}

type FinalizeIdempotencyKeyParams struct {
	ResponseStatus int32
	ResponseBody   []byte
	ContentType    string
	IdempotencyKey string
	RequestHash    string
}

func (q *Queries) FinalizeIdempotencyKey(ctx context.Context, arg FinalizeIdempotencyKeyParams) (IdempotencyKeyRow, error) {
	const query = `
		UPDATE idempotency_keys
		SET response_status = $1, response_body = $2, content_type = $3,
		    in_progress = FALSE, completed_at = NOW()
		WHERE idempotency_key = $4 AND request_hash = $5
		RETURNING idempotency_key, request_hash, response_status, response_body, content_type, in_progress`
	var row IdempotencyKeyRow
	err := q.db.QueryRow(ctx, query,
		arg.ResponseStatus, arg.ResponseBody, arg.ContentType, arg.IdempotencyKey, arg.RequestHash,
	).Scan(
		&row.IdempotencyKey, &row.RequestHash, &row.ResponseStatus,
		&row.ResponseBody, &row.ContentType, &row.InProgress,
	)
	if err != nil {
		return IdempotencyKeyRow{}, err
	}
	return row, nil
}
