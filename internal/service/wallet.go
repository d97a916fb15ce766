package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Profanor/bullafric-fintech-api/internal/domain"
	"github.com/Profanor/bullafric-fintech-api/internal/models"
	"github.com/Profanor/bullafric-fintech-api/internal/notification"
	"github.com/Profanor/bullafric-fintech-api/internal/observability"
	"github.com/Profanor/bullafric-fintech-api/internal/repository"
	"github.com/google/uuid"
)

// WalletService is the public face of the wallet ledger engine. Every
// balance-affecting operation runs as one transaction containing the
// conditional balance update(s) and exactly one ledger entry, so no caller
// ever observes a mutation without its entry or vice versa.
type WalletService struct {
	store    repository.Store
	notifier notification.Notifier
}

func NewWalletService(store repository.Store, notifier notification.Notifier) *WalletService {
	return &WalletService{store: store, notifier: notifier}
}

// BalanceResult is the caller-facing wallet state after a read or a
// committed single-wallet mutation.
type BalanceResult struct {
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
	Formatted string `json:"formatted"`
}

// TransferResult reports both committed balances of a transfer.
type TransferResult struct {
	SenderBalance    int64  `json:"sender_balance"`
	RecipientBalance int64  `json:"recipient_balance"`
	Currency         string `json:"currency"`
}

func newBalanceResult(balance int64, currency string) *BalanceResult {
	return &BalanceResult{
		Balance:   balance,
		Currency:  currency,
		Formatted: domain.NewMoney(balance, currency).String(),
	}
}

// GetBalance is read-only and never mutates.
func (s *WalletService) GetBalance(ctx context.Context, ownerID uuid.UUID) (*BalanceResult, error) {
	wallet, err := s.store.Queries().GetWallet(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return newBalanceResult(wallet.Balance, wallet.Currency), nil
}

// Fund credits the wallet and appends a FUND ledger entry atomically.
func (s *WalletService) Fund(ctx context.Context, ownerID uuid.UUID, amount int64) (*BalanceResult, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	var committed repository.AdjustedWallet
	err := s.store.RunInTx(ctx, func(q repository.Querier) error {
		adjusted, err := q.AdjustBalance(ctx, repository.AdjustBalanceParams{
			OwnerID: ownerID,
			Delta:   amount,
		})
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return models.ErrWalletNotFound
		}
		if err != nil {
			return fmt.Errorf("credit wallet: %w", err)
		}

		if err := q.AppendTransaction(ctx, &models.Transaction{
			Amount:   amount,
			Type:     domain.TxTypeFund,
			ToUserID: &ownerID,
		}); err != nil {
			return err
		}

		committed = adjusted
		return nil
	})
	if err != nil {
		observability.IncrementWalletOperation("fund", outcomeLabel(err))
		return nil, err
	}

	observability.IncrementWalletOperation("fund", "success")
	return newBalanceResult(committed.Balance, committed.Currency), nil
}

// Withdraw debits the wallet with sufficiency required and appends a
// WITHDRAW ledger entry atomically. The guarded update is the only defense
// against concurrent debits; no prior balance read is consulted.
func (s *WalletService) Withdraw(ctx context.Context, ownerID uuid.UUID, amount int64) (*BalanceResult, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	var committed repository.AdjustedWallet
	err := s.store.RunInTx(ctx, func(q repository.Querier) error {
		adjusted, err := q.AdjustBalance(ctx, repository.AdjustBalanceParams{
			OwnerID:           ownerID,
			Delta:             -amount,
			RequireSufficient: true,
		})
		if errors.Is(err, repository.ErrNoRowsAffected) {
			exists, existsErr := q.WalletExists(ctx, ownerID)
			if existsErr != nil {
				return fmt.Errorf("resolve failed debit: %w", existsErr)
			}
			if !exists {
				return models.ErrWalletNotFound
			}
			return models.ErrInsufficientFunds
		}
		if err != nil {
			return fmt.Errorf("debit wallet: %w", err)
		}

		if err := q.AppendTransaction(ctx, &models.Transaction{
			Amount:     amount,
			Type:       domain.TxTypeWithdraw,
			FromUserID: &ownerID,
		}); err != nil {
			return err
		}

		committed = adjusted
		return nil
	})
	if err != nil {
		observability.IncrementWalletOperation("withdraw", outcomeLabel(err))
		return nil, err
	}

	observability.IncrementWalletOperation("withdraw", "success")
	return newBalanceResult(committed.Balance, committed.Currency), nil
}

// Transfer moves funds between two wallets: validate, debit the sender with
// sufficiency required, credit the recipient, append one TRANSFER entry.
// All three writes share one transaction; the debit always precedes the
// credit so a failed debit never needs compensation.
func (s *WalletService) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount int64) (*TransferResult, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, models.ErrSelfTransfer
	}

	var sender, recipient repository.AdjustedWallet
	err := s.store.RunInTx(ctx, func(q repository.Querier) error {
		exists, err := q.WalletExists(ctx, toID)
		if err != nil {
			return fmt.Errorf("check recipient: %w", err)
		}
		if !exists {
			return models.ErrRecipientNotFound
		}

		debited, err := q.AdjustBalance(ctx, repository.AdjustBalanceParams{
			OwnerID:           fromID,
			Delta:             -amount,
			RequireSufficient: true,
		})
		if errors.Is(err, repository.ErrNoRowsAffected) {
			senderExists, existsErr := q.WalletExists(ctx, fromID)
			if existsErr != nil {
				return fmt.Errorf("resolve failed debit: %w", existsErr)
			}
			if !senderExists {
				return models.ErrWalletNotFound
			}
			return models.ErrInsufficientFunds
		}
		if err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}

		credited, err := q.AdjustBalance(ctx, repository.AdjustBalanceParams{
			OwnerID: toID,
			Delta:   amount,
		})
		if err != nil {
			return fmt.Errorf("credit recipient: %w", err)
		}

		if err := q.AppendTransaction(ctx, &models.Transaction{
			Amount:     amount,
			Type:       domain.TxTypeTransfer,
			FromUserID: &fromID,
			ToUserID:   &toID,
		}); err != nil {
			return err
		}

		sender, recipient = debited, credited
		return nil
	})
	if err != nil {
		observability.IncrementWalletOperation("transfer", outcomeLabel(err))
		return nil, err
	}

	observability.IncrementWalletOperation("transfer", "success")
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:   notification.KindTransferCompleted,
			UserID: toID.String(),
			Body:   fmt.Sprintf("received %s from %s", domain.NewMoney(amount, sender.Currency), fromID),
		})
	}

	return &TransferResult{
		SenderBalance:    sender.Balance,
		RecipientBalance: recipient.Balance,
		Currency:         sender.Currency,
	}, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, models.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, models.ErrWalletNotFound), errors.Is(err, models.ErrRecipientNotFound):
		return "not_found"
	case errors.Is(err, models.ErrSelfTransfer):
		return "self_transfer"
	default:
		return "store_error"
	}
}
