package topup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

const initialStatus = "waiting"

type TopUpUsecase interface {
	CreateTopUp(ctx context.Context, userID string, priceAmount decimal.Decimal, payCurrency string) (*domain.TopUpReceipt, error)
	GetPendingPayment(ctx context.Context, userID, paymentID string) (*domain.PendingPayment, error)
	ListDeposits(ctx context.Context, userID string) ([]*domain.FinalizedPayment, error)
}

type DefaultTopUpUsecase struct {
	Provider       domain.PaymentProvider
	PendingRepo    domain.PendingPaymentRepository
	Ledger         domain.PaymentLedger
	Metrics        *metrics.TopUpMetrics
	Logger         *slog.Logger
	IpnCallbackURL string

	suffix func() string
	now    func() time.Time
}

func NewDefaultTopUpUsecase(
	provider domain.PaymentProvider,
	pendingRepo domain.PendingPaymentRepository,
	ledger domain.PaymentLedger,
	topUpMetrics *metrics.TopUpMetrics,
	logger *slog.Logger,
	ipnCallbackURL string,
) (*DefaultTopUpUsecase, error) {
	suffix, err := nanoid.Standard(8)
	if err != nil {
		return nil, fmt.Errorf("failed to create order id generator: %w", err)
	}

	return &DefaultTopUpUsecase{
		Provider:       provider,
		PendingRepo:    pendingRepo,
		Ledger:         ledger,
		Metrics:        topUpMetrics,
		Logger:         logger,
		IpnCallbackURL: ipnCallbackURL,
		suffix:         suffix,
		now:            time.Now,
	}, nil
}

// CreateTopUp opens a payment at the provider and records it as pending.
func (uc *DefaultTopUpUsecase) CreateTopUp(ctx context.Context, userID string, priceAmount decimal.Decimal, payCurrency string) (*domain.TopUpReceipt, error) {
	if !uc.Provider.Configured() {
		return nil, domain.ErrProviderConfig
	}

	payCurrency = strings.TrimSpace(payCurrency)
	if !priceAmount.IsPositive() || payCurrency == "" {
		return nil, fmt.Errorf("%w: priceAmount and payCurrency are required", domain.ErrInvalidInput)
	}

	orderID := fmt.Sprintf("ORDER-%d-%s-%s", uc.now().UnixMilli(), userID, uc.suffix())

	remote, err := uc.Provider.CreatePayment(ctx, domain.CreatePaymentRequest{
		PriceAmount:      priceAmount,
		PriceCurrency:    domain.DefaultPriceCurrency,
		PayCurrency:      payCurrency,
		IpnCallbackURL:   uc.IpnCallbackURL,
		OrderID:          orderID,
		OrderDescription: "Top-up payment for user " + userID,
	})
	if err != nil {
		if uc.Metrics != nil {
			uc.Metrics.RecordProviderError("create_payment")
		}
		return nil, err
	}

	raw, err := remote.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider response: %w", err)
	}

	pending := &domain.PendingPayment{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		PaymentID:              remote.PaymentID.String(),
		PaymentStatus:          firstNonEmpty(remote.PaymentStatus, initialStatus),
		PayAddress:             remote.PayAddress,
		PayAmount:              remote.PayAmount,
		PayCurrency:            remote.PayCurrency,
		PriceAmount:            priceAmount,
		PriceCurrency:          domain.DefaultPriceCurrency,
		OrderID:                firstNonEmpty(remote.OrderID, orderID),
		OrderDescription:       remote.OrderDescription,
		IpnCallbackURL:         remote.IpnCallbackURL,
		AmountReceived:         remote.AmountReceived,
		PayinExtraID:           remote.PayinExtraID.String(),
		PurchaseID:             remote.PurchaseID.String(),
		Network:                remote.Network,
		ExpirationEstimateDate: remote.ExpirationEstimateDate,
		ProviderCreatedAt:      remote.CreatedAt,
		ProviderUpdatedAt:      remote.UpdatedAt,
		Raw:                    raw,
	}

	if err := uc.PendingRepo.Create(ctx, pending); err != nil {
		uc.Logger.Error("payment created at provider but not stored",
			"payment_id", pending.PaymentID, "user_id", userID, "order_id", pending.OrderID, "error", err)
		return nil, err
	}

	uc.Logger.Info("top-up payment created",
		"payment_id", pending.PaymentID, "user_id", userID, "pay_currency", pending.PayCurrency, "price_amount", priceAmount.String())
	if uc.Metrics != nil {
		uc.Metrics.RecordTopUpCreated(strings.ToLower(payCurrency))
	}

	return &domain.TopUpReceipt{
		PaymentID:   pending.PaymentID,
		PayAddress:  pending.PayAddress,
		PayCurrency: pending.PayCurrency,
		PayAmount:   pending.PayAmount,
	}, nil
}

func (uc *DefaultTopUpUsecase) GetPendingPayment(ctx context.Context, userID, paymentID string) (*domain.PendingPayment, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", domain.ErrInvalidInput)
	}
	return uc.PendingRepo.GetForUser(ctx, userID, paymentID)
}

// ListDeposits returns every ledger entry of the user, newest first.
func (uc *DefaultTopUpUsecase) ListDeposits(ctx context.Context, userID string) ([]*domain.FinalizedPayment, error) {
	return uc.Ledger.ListByUser(ctx, userID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
