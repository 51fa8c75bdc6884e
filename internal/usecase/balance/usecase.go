package balance

import (
	"context"
	"strings"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/shopspring/decimal"
)

type BalanceUsecase interface {
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}

type DefaultBalanceUsecase struct {
	Ledger domain.PaymentLedger
}

func NewDefaultBalanceUsecase(ledger domain.PaymentLedger) *DefaultBalanceUsecase {
	return &DefaultBalanceUsecase{Ledger: ledger}
}

// GetBalance sums the user's completed top-ups in USD, rounded to cents.
func (uc *DefaultBalanceUsecase) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	payments, err := uc.Ledger.ListByUser(ctx, userID, domain.FinalizedStatusFinished, domain.FinalizedStatusPaid)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(Contribution(p))
	}
	return total.Round(2), nil
}

// Contribution is the USD amount one ledger entry adds to the balance: the
// settled outcome when the provider reports it in USD, else the price.
func Contribution(p *domain.FinalizedPayment) decimal.Decimal {
	resp := p.ProviderResponse
	if resp == nil {
		return p.PriceAmount
	}
	if resp.OutcomeAmount.Valid && !resp.OutcomeAmount.Decimal.IsZero() &&
		strings.EqualFold(resp.OutcomeCurrency, domain.DefaultPriceCurrency) {
		return resp.OutcomeAmount.Decimal
	}
	if resp.PriceAmount.Valid {
		return resp.PriceAmount.Decimal
	}
	return p.PriceAmount
}
