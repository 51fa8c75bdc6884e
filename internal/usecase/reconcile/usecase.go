package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/metrics"
)

type ReconcileUsecase interface {
	RunPass(ctx context.Context) (PassResult, error)
}

// PassResult counts what one pass did. Scanned equals the sum of the rest.
type PassResult struct {
	Scanned   int
	Skipped   int
	Finalized int
	Discarded int
	Updated   int
	Failed    int
}

type recordResult int

const (
	resultSkipped recordResult = iota
	resultFinalized
	resultDiscarded
	resultUpdated
	resultFailed
)

func (r recordResult) String() string {
	switch r {
	case resultSkipped:
		return "skipped"
	case resultFinalized:
		return "finalized"
	case resultDiscarded:
		return "discarded"
	case resultUpdated:
		return "updated"
	default:
		return "failed"
	}
}

func (p *PassResult) add(r recordResult) {
	p.Scanned++
	switch r {
	case resultSkipped:
		p.Skipped++
	case resultFinalized:
		p.Finalized++
	case resultDiscarded:
		p.Discarded++
	case resultUpdated:
		p.Updated++
	default:
		p.Failed++
	}
}

type DefaultReconcileUsecase struct {
	Provider    domain.PaymentProvider
	PendingRepo domain.PendingPaymentRepository
	Ledger      domain.PaymentLedger
	Publisher   domain.EventPublisher
	Archive     domain.SnapshotArchive
	Metrics     *metrics.TopUpMetrics
	Logger      *slog.Logger
	Workers     int

	now func() time.Time
}

// Publisher, Archive and Metrics may be nil.
func NewDefaultReconcileUsecase(
	provider domain.PaymentProvider,
	pendingRepo domain.PendingPaymentRepository,
	ledger domain.PaymentLedger,
	publisher domain.EventPublisher,
	archive domain.SnapshotArchive,
	topUpMetrics *metrics.TopUpMetrics,
	logger *slog.Logger,
	workers int,
) *DefaultReconcileUsecase {
	if workers < 1 {
		workers = 1
	}
	return &DefaultReconcileUsecase{
		Provider:    provider,
		PendingRepo: pendingRepo,
		Ledger:      ledger,
		Publisher:   publisher,
		Archive:     archive,
		Metrics:     topUpMetrics,
		Logger:      logger,
		Workers:     workers,
		now:         time.Now,
	}
}

// RunPass polls the provider for every pending record and moves each one
// forward. Only a failure to list the pending records is returned; errors on
// individual records are logged and counted.
func (uc *DefaultReconcileUsecase) RunPass(ctx context.Context) (PassResult, error) {
	var result PassResult

	if !uc.Provider.Configured() {
		uc.Logger.Debug("payment provider not configured, skipping reconcile pass")
		return result, nil
	}

	pending, err := uc.PendingRepo.ListAll(ctx)
	if err != nil {
		return result, err
	}
	if len(pending) == 0 {
		return result, nil
	}

	uc.Logger.Info("checking pending payments", "count", len(pending))

	jobs := make(chan *domain.PendingPayment)
	results := make(chan recordResult)

	workers := uc.Workers
	if workers > len(pending) {
		workers = len(pending)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				results <- uc.processRecord(ctx, p)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range pending {
			select {
			case jobs <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		result.add(r)
		if uc.Metrics != nil {
			uc.Metrics.RecordRecord(r.String())
		}
	}

	return result, nil
}

func (uc *DefaultReconcileUsecase) processRecord(ctx context.Context, p *domain.PendingPayment) recordResult {
	log := uc.Logger.With("pending_id", p.ID, "payment_id", p.PaymentID, "user_id", p.UserID)

	if p.PaymentID == "" {
		log.Warn("skipping pending payment without payment id")
		return resultSkipped
	}

	remote, err := uc.Provider.FetchStatus(ctx, p.PaymentID)
	if err != nil {
		log.Error("failed to check payment status", "error", err)
		if uc.Metrics != nil {
			uc.Metrics.RecordProviderError("fetch_status")
		}
		return resultFailed
	}

	uc.archive(ctx, p, remote)

	status := remote.NormalizedStatus()
	log = log.With("status", status)

	switch Classify(status) {
	case ActionFinalize:
		return uc.finalize(ctx, log, p, remote, status)
	case ActionDiscard:
		return uc.discard(ctx, log, p, status)
	default:
		return uc.update(ctx, log, p, remote)
	}
}

func (uc *DefaultReconcileUsecase) archive(ctx context.Context, p *domain.PendingPayment, remote *domain.ProviderPayment) {
	if uc.Archive == nil {
		return
	}
	payload, err := remote.Snapshot()
	if err != nil {
		uc.Logger.Warn("failed to encode provider snapshot", "payment_id", p.PaymentID, "error", err)
		return
	}
	if err := uc.Archive.Archive(ctx, domain.ProviderSnapshot{
		PaymentID:  p.PaymentID,
		UserID:     p.UserID,
		Status:     remote.PaymentStatus,
		Payload:    payload,
		ObservedAt: uc.now().UTC(),
	}); err != nil {
		uc.Logger.Warn("failed to archive provider snapshot", "payment_id", p.PaymentID, "error", err)
	}
}

func (uc *DefaultReconcileUsecase) publish(ctx context.Context, log *slog.Logger, event domain.PaymentEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishPaymentEvent(ctx, event); err != nil {
		log.Warn("failed to publish payment event", "event", event.Type, "error", err)
	}
}
