package service

import (
	"context"
	"time"

	"github.com/Profanor/bullafric-fintech-api/internal/repository"
	"github.com/google/uuid"
)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// Profile is the user record with the embedded wallet summary.
type Profile struct {
	ID          uuid.UUID     `json:"id"`
	Username    string        `json:"username"`
	Email       string        `json:"email"`
	PhoneNumber string        `json:"phone_number"`
	CreatedAt   time.Time     `json:"created_at"`
	Wallet      WalletSummary `json:"wallet"`
}

type WalletSummary struct {
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	q := s.store.Queries()
	user, err := q.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	wallet, err := q.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt,
		Wallet: WalletSummary{
			Balance:  wallet.Balance,
			Currency: wallet.Currency,
		},
	}, nil
}
