package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/balance"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/reconcile"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/topup"
)

type UseCases struct {
	ReconcileUsecase reconcile.ReconcileUsecase
	BalanceUsecase   balance.BalanceUsecase
	TopUpUsecase     topup.TopUpUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	// Typed nils must not reach the engine as non-nil interfaces.
	var eventPublisher domain.EventPublisher
	if deps.Publisher != nil {
		eventPublisher = deps.Publisher
	}
	var archive domain.SnapshotArchive
	if deps.Archive != nil {
		archive = deps.Archive
	}

	reconcileUsecase := reconcile.NewDefaultReconcileUsecase(
		deps.Provider,
		deps.Repositories.PendingRepo,
		deps.Repositories.Ledger,
		eventPublisher,
		archive,
		deps.Metrics,
		deps.Logger,
		deps.Config.Reconcile.Workers,
	)

	topUpUsecase, err := topup.NewDefaultTopUpUsecase(
		deps.Provider,
		deps.Repositories.PendingRepo,
		deps.Repositories.Ledger,
		deps.Metrics,
		deps.Logger,
		deps.Config.NowPayments.IpnCallbackURL,
	)
	if err != nil {
		return nil, fmt.Errorf("top-up usecase: %w", err)
	}

	return &UseCases{
		ReconcileUsecase: reconcileUsecase,
		BalanceUsecase:   balance.NewDefaultBalanceUsecase(deps.Repositories.Ledger),
		TopUpUsecase:     topUpUsecase,
	}, nil
}
