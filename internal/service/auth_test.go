package service

import (
	"context"
	"testing"

	"github.com/Profanor/bullafric-fintech-api/internal/domain"
	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserWithZeroBalanceWallet(t *testing.T) {
	store := newTestStore()
	svc := NewAuthService(store, nil, "")
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username:    "chinedu",
		Email:       "chinedu@example.com",
		PhoneNumber: "+2348012345678",
		Password:    "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash, "password must be stored hashed")

	wallet, err := store.Queries().GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Balance)
	assert.Equal(t, domain.DefaultCurrency, wallet.Currency)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	store := newTestStore()
	svc := NewAuthService(store, nil, "")
	ctx := context.Background()

	input := RegisterInput{
		Username:    "chinedu",
		Email:       "chinedu@example.com",
		PhoneNumber: "+2348012345678",
		Password:    "s3cret-pass",
	}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, models.ErrUserExists)

	// Same email under a different username still conflicts.
	input.Username = "chinedu2"
	input.PhoneNumber = "+2348099999999"
	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, models.ErrUserExists)
}

func TestRegisterValidatesInput(t *testing.T) {
	store := newTestStore()
	svc := NewAuthService(store, nil, "")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "pass"})
	assert.Error(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "a", Password: "pass"})
	assert.Error(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "a", Email: "a@b.com"})
	assert.Error(t, err)
}

func TestLoginByEmailAndPhone(t *testing.T) {
	store := newTestStore()
	svc := NewAuthService(store, nil, "")
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Username:    "amaka",
		Email:       "amaka@example.com",
		PhoneNumber: "+2348023456789",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	byEmail, err := svc.Login(ctx, "amaka@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, byEmail.ID)

	byPhone, err := svc.Login(ctx, "+2348023456789", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, byPhone.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newTestStore()
	svc := NewAuthService(store, nil, "")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Username:    "amaka",
		Email:       "amaka@example.com",
		PhoneNumber: "+2348023456789",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "amaka@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// Unknown accounts report the same error as bad passwords.
	_, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}
