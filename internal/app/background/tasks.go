package background

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/reconcile"
)

const releaseTimeout = 5 * time.Second

type BackgroundTasks struct {
	ReconcileUsecase reconcile.ReconcileUsecase
	Lock             domain.PassLock
	Metrics          *metrics.TopUpMetrics
	Logger           *slog.Logger
	Interval         time.Duration

	running atomic.Bool
	wg      sync.WaitGroup
}

func NewBackgroundTasks(
	reconcileUC reconcile.ReconcileUsecase,
	lock domain.PassLock,
	topUpMetrics *metrics.TopUpMetrics,
	logger *slog.Logger,
	interval time.Duration,
) *BackgroundTasks {
	return &BackgroundTasks{
		ReconcileUsecase: reconcileUC,
		Lock:             lock,
		Metrics:          topUpMetrics,
		Logger:           logger,
		Interval:         interval,
	}
}

// StartAll launches the periodic tasks. They stop when ctx is cancelled;
// Wait blocks until they have returned.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	bt.wg.Add(1)
	go func() {
		defer bt.wg.Done()
		bt.startPaymentStatusChecker(ctx)
	}()
}

func (bt *BackgroundTasks) Wait() {
	bt.wg.Wait()
}

func (bt *BackgroundTasks) startPaymentStatusChecker(ctx context.Context) {
	bt.Logger.Info("payment status checker started", "interval", bt.Interval.String())

	ticker := time.NewTicker(bt.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			bt.Logger.Info("payment status checker stopped")
			return
		case <-ticker.C:
			bt.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single pass unless one is already in progress in this
// process or, with a distributed lock, in another one.
func (bt *BackgroundTasks) RunOnce(ctx context.Context) {
	if !bt.running.CompareAndSwap(false, true) {
		bt.Logger.Debug("previous reconcile pass still running, skipping tick")
		bt.recordSkipped()
		return
	}
	defer bt.running.Store(false)

	if bt.Lock != nil {
		release, err := bt.Lock.TryAcquire(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrLockNotAcquired) {
				bt.Logger.Debug("reconcile pass held by another instance, skipping tick")
			} else {
				bt.Logger.Warn("failed to acquire reconcile lock, skipping tick", "error", err)
			}
			bt.recordSkipped()
			return
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				bt.Logger.Warn("failed to release reconcile lock", "error", err)
			}
		}()
	}

	start := time.Now()
	result, err := bt.ReconcileUsecase.RunPass(ctx)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		bt.Logger.Error("error in payment status check", "error", err)
	} else if result.Scanned > 0 {
		bt.Logger.Info("reconcile pass finished",
			"scanned", result.Scanned,
			"finalized", result.Finalized,
			"discarded", result.Discarded,
			"updated", result.Updated,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"duration", elapsed.String())
	}

	if bt.Metrics != nil {
		bt.Metrics.RecordPass(outcome, elapsed.Seconds(), result.Scanned)
	}
}

func (bt *BackgroundTasks) recordSkipped() {
	if bt.Metrics != nil {
		bt.Metrics.RecordSkippedPass()
	}
}
