package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Profanor/bullafric-fintech-api/internal/domain"
	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/Profanor/bullafric-fintech-api/internal/notification"
	"github.com/Profanor/bullafric-fintech-api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers users and verifies credentials. Token issuance
// lives in the HTTP layer.
type AuthService struct {
	store    repository.Store
	notifier notification.Notifier
	currency string
}

func NewAuthService(store repository.Store, notifier notification.Notifier, currency string) *AuthService {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &AuthService{store: store, notifier: notifier, currency: currency}
}

type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string
	Password    string
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return errors.New("username is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return errors.New("password is required")
	}
	return nil
}

// Register creates the user and their zero-balance wallet in one atomic
// unit, so an account never exists without a wallet. The user.created
// event is emitted only after the unit has committed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	_, err := s.store.Queries().FindUserConflict(ctx, input.Email, input.Username, input.PhoneNumber)
	if err == nil {
		return nil, models.ErrUserExists
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("check user conflict: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	err = s.store.RunInTx(ctx, func(q repository.Querier) error {
		if err := q.CreateUser(ctx, user); err != nil {
			return err
		}
		return q.CreateWallet(ctx, &models.Wallet{
			UserID:   user.ID,
			Balance:  0,
			Currency: s.currency,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:   notification.KindUserCreated,
			UserID: user.ID.String(),
			Body:   fmt.Sprintf("user %s registered", user.Username),
		})
	}

	return user, nil
}

// Login verifies the password for an account addressed by email or phone
// number. Lookup misses and bad passwords both report ErrInvalidCredentials
// so the response does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.store.Queries().GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}
