package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
)

const defaultOrderDescription = "Top-up payment"

func (uc *DefaultReconcileUsecase) finalize(ctx context.Context, log *slog.Logger, p *domain.PendingPayment, remote *domain.ProviderPayment, status string) recordResult {
	payment := uc.buildFinalized(p, remote, status)

	if err := uc.Ledger.Finalize(ctx, payment, p.ID); err != nil {
		log.Error("failed to finalize payment, will retry next pass", "error", err)
		return resultFailed
	}

	log.Info("payment completed, moved to ledger", "ledger_status", payment.Status, "order_id", payment.OrderID)

	if uc.Metrics != nil {
		uc.Metrics.RecordFinalized(payment.PriceCurrency, string(payment.Status), payment.PriceAmount.InexactFloat64())
	}
	uc.publish(ctx, log, domain.PaymentEvent{
		Type:          domain.EventPaymentFinalized,
		PaymentID:     payment.PaymentID,
		OrderID:       payment.OrderID,
		UserID:        payment.UserID,
		Status:        string(payment.Status),
		PriceAmount:   payment.PriceAmount.String(),
		PriceCurrency: payment.PriceCurrency,
		PayCurrency:   payment.PayCurrency,
		OccurredAt:    uc.now().UTC(),
	})
	return resultFinalized
}

// buildFinalized prefers what the provider reports and falls back to the
// values stored when the payment was created.
func (uc *DefaultReconcileUsecase) buildFinalized(p *domain.PendingPayment, remote *domain.ProviderPayment, status string) *domain.FinalizedPayment {
	ledgerStatus := domain.FinalizedStatusPaid
	if status == string(domain.FinalizedStatusFinished) {
		ledgerStatus = domain.FinalizedStatusFinished
	}

	orderID := firstNonEmpty(remote.OrderID, p.OrderID)
	if orderID == "" {
		orderID = fmt.Sprintf("ORDER-%d-%s", uc.now().UnixMilli(), p.UserID)
	}

	priceAmount := p.PriceAmount
	if remote.PriceAmount.Valid {
		priceAmount = remote.PriceAmount.Decimal
	}

	return &domain.FinalizedPayment{
		UserID:           p.UserID,
		OrderID:          orderID,
		PriceAmount:      priceAmount,
		PriceCurrency:    firstNonEmpty(remote.PriceCurrency, p.PriceCurrency, domain.DefaultPriceCurrency),
		OrderDescription: firstNonEmpty(remote.OrderDescription, p.OrderDescription, defaultOrderDescription),
		PayCurrency:      firstNonEmpty(remote.PayCurrency, p.PayCurrency),
		PaymentID:        firstNonEmpty(remote.PaymentID.String(), p.PaymentID),
		Status:           ledgerStatus,
		ProviderResponse: remote,
	}
}

func (uc *DefaultReconcileUsecase) discard(ctx context.Context, log *slog.Logger, p *domain.PendingPayment, status string) recordResult {
	if err := uc.PendingRepo.Delete(ctx, p.ID); err != nil {
		log.Error("failed to delete failed payment", "error", err)
		return resultFailed
	}

	log.Info("payment failed, removed from pending")

	uc.publish(ctx, log, domain.PaymentEvent{
		Type:          domain.EventPaymentDiscarded,
		PaymentID:     p.PaymentID,
		OrderID:       p.OrderID,
		UserID:        p.UserID,
		Status:        status,
		PriceAmount:   p.PriceAmount.String(),
		PriceCurrency: p.PriceCurrency,
		PayCurrency:   p.PayCurrency,
		OccurredAt:    uc.now().UTC(),
	})
	return resultDiscarded
}

func (uc *DefaultReconcileUsecase) update(ctx context.Context, log *slog.Logger, p *domain.PendingPayment, remote *domain.ProviderPayment) recordResult {
	raw, err := remote.Snapshot()
	if err != nil {
		log.Error("failed to encode provider snapshot", "error", err)
		return resultFailed
	}

	received := remote.ActuallyPaid
	if !received.Valid {
		received = remote.AmountReceived
	}

	update := domain.PendingUpdate{
		PaymentStatus:     firstNonEmpty(remote.PaymentStatus, p.PaymentStatus),
		PayAddress:        remote.PayAddress,
		PayAmount:         remote.PayAmount,
		PayCurrency:       remote.PayCurrency,
		AmountReceived:    received,
		PayinExtraID:      remote.PayinExtraID.String(),
		PurchaseID:        remote.PurchaseID.String(),
		ProviderUpdatedAt: remote.UpdatedAt,
		Raw:               raw,
	}

	if err := uc.PendingRepo.ApplyUpdate(ctx, p.ID, update); err != nil {
		log.Error("failed to update pending payment", "error", err)
		return resultFailed
	}

	log.Debug("payment still pending, status updated")
	return resultUpdated
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
