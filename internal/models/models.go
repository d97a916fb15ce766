package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Wallet is the single stored-value account owned by a user (1:1).
// Balance is held in minor currency units (kobo) and never goes negative.
type Wallet struct {
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is one immutable ledger entry. Amount is always positive;
// direction is implied by Type and the from/to columns. FromUserID is nil
// for FUND, ToUserID is nil for WITHDRAW.
type Transaction struct {
	ID         int64      `json:"id"`
	Amount     int64      `json:"amount"`
	Type       string     `json:"type"`
	FromUserID *uuid.UUID `json:"from_user_id,omitempty"`
	ToUserID   *uuid.UUID `json:"to_user_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
