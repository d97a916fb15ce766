package service

import (
	"context"
	"fmt"

	"github.com/Profanor/bullafric-fintech-api/internal/observability"
	"github.com/Profanor/bullafric-fintech-api/internal/repository"
	"go.uber.org/zap"
)

// ReconciliationService verifies the conservation invariant: the sum of all
// wallet balances must equal net funds created (FUND minus WITHDRAW), since
// transfers only move money between wallets.
type ReconciliationService struct {
	store repository.Store
}

func NewReconciliationService(store repository.Store) *ReconciliationService {
	return &ReconciliationService{store: store}
}

// Run compares wallet totals against the ledger net flow. A divergence is
// reported, not repaired; the ledger is the source of truth for auditing.
func (s *ReconciliationService) Run(ctx context.Context) error {
	q := s.store.Queries()

	total, err := q.TotalWalletBalance(ctx)
	if err != nil {
		return fmt.Errorf("sum wallet balances: %w", err)
	}
	net, err := q.LedgerNetFlow(ctx)
	if err != nil {
		return fmt.Errorf("sum ledger net flow: %w", err)
	}

	if total != net {
		observability.IncrementConservationViolation()
		zap.L().Error("CRITICAL: wallet conservation violated",
			zap.Int64("wallet_total", total),
			zap.Int64("ledger_net", net),
			zap.Int64("drift", total-net),
		)
		return nil
	}

	zap.L().Info("wallet ledger conserved", zap.Int64("wallet_total", total))
	return nil
}
