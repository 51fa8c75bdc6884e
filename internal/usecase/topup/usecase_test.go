package topup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	configured bool
	response   string
	err        error
	got        domain.CreatePaymentRequest
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) CreatePayment(_ context.Context, req domain.CreatePaymentRequest) (*domain.ProviderPayment, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	var p domain.ProviderPayment
	if err := json.Unmarshal([]byte(f.response), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *fakeProvider) FetchStatus(context.Context, string) (*domain.ProviderPayment, error) {
	return nil, errors.New("not used")
}

type fakePendingRepo struct {
	created []*domain.PendingPayment
	err     error
}

func (f *fakePendingRepo) Create(_ context.Context, p *domain.PendingPayment) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakePendingRepo) ListAll(context.Context) ([]*domain.PendingPayment, error) {
	return f.created, nil
}

func (f *fakePendingRepo) GetForUser(_ context.Context, userID, paymentID string) (*domain.PendingPayment, error) {
	for _, p := range f.created {
		if p.UserID == userID && p.PaymentID == paymentID {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePendingRepo) ApplyUpdate(context.Context, string, domain.PendingUpdate) error { return nil }
func (f *fakePendingRepo) Delete(context.Context, string) error                           { return nil }

type fakeLedger struct {
	payments []*domain.FinalizedPayment
	statuses []domain.FinalizedStatus
}

func (f *fakeLedger) Finalize(context.Context, *domain.FinalizedPayment, string) error { return nil }

func (f *fakeLedger) ListByUser(_ context.Context, _ string, statuses ...domain.FinalizedStatus) ([]*domain.FinalizedPayment, error) {
	f.statuses = statuses
	return f.payments, nil
}

func newTestUsecase(t *testing.T, provider *fakeProvider, repo *fakePendingRepo, ledger *fakeLedger) *DefaultTopUpUsecase {
	t.Helper()
	uc, err := NewDefaultTopUpUsecase(provider, repo, ledger, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), "https://example.com/ipn")
	require.NoError(t, err)
	uc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	uc.suffix = func() string { return "abcd1234" }
	return uc
}

func TestCreateTopUp_StoresPending(t *testing.T) {
	provider := &fakeProvider{
		configured: true,
		response:   `{"payment_id":5745459419,"payment_status":"waiting","pay_address":"bc1qxyz","price_amount":25,"price_currency":"usd","pay_amount":0.00041,"pay_currency":"btc","order_id":"ORDER-1700000000000-u1-abcd1234","order_description":"Top-up payment for user u1","network":"btc","time_limit":null}`,
	}
	repo := &fakePendingRepo{}
	uc := newTestUsecase(t, provider, repo, &fakeLedger{})

	receipt, err := uc.CreateTopUp(context.Background(), "u1", decimal.RequireFromString("25"), "btc")
	require.NoError(t, err)

	assert.Equal(t, "5745459419", receipt.PaymentID)
	assert.Equal(t, "bc1qxyz", receipt.PayAddress)
	assert.Equal(t, "btc", receipt.PayCurrency)
	assert.True(t, receipt.PayAmount.Decimal.Equal(decimal.RequireFromString("0.00041")))

	assert.Equal(t, "usd", provider.got.PriceCurrency)
	assert.Equal(t, "ORDER-1700000000000-u1-abcd1234", provider.got.OrderID)
	assert.Equal(t, "Top-up payment for user u1", provider.got.OrderDescription)
	assert.Equal(t, "https://example.com/ipn", provider.got.IpnCallbackURL)

	require.Len(t, repo.created, 1)
	p := repo.created[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "waiting", p.PaymentStatus)
	assert.Equal(t, "usd", p.PriceCurrency)
	assert.True(t, p.PriceAmount.Equal(decimal.RequireFromString("25")))
	assert.Contains(t, string(p.Raw), `"time_limit":null`)
}

func TestCreateTopUp_DefaultsStatusAndOrderID(t *testing.T) {
	provider := &fakeProvider{configured: true, response: `{"payment_id":"77"}`}
	repo := &fakePendingRepo{}
	uc := newTestUsecase(t, provider, repo, &fakeLedger{})

	_, err := uc.CreateTopUp(context.Background(), "u1", decimal.RequireFromString("5"), "eth")
	require.NoError(t, err)
	assert.Equal(t, "waiting", repo.created[0].PaymentStatus)
	assert.Equal(t, "ORDER-1700000000000-u1-abcd1234", repo.created[0].OrderID)
}

func TestCreateTopUp_Validation(t *testing.T) {
	provider := &fakeProvider{configured: true}
	uc := newTestUsecase(t, provider, &fakePendingRepo{}, &fakeLedger{})

	_, err := uc.CreateTopUp(context.Background(), "u1", decimal.Zero, "btc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateTopUp(context.Background(), "u1", decimal.RequireFromString("-1"), "btc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateTopUp(context.Background(), "u1", decimal.RequireFromString("10"), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateTopUp_NotConfigured(t *testing.T) {
	uc := newTestUsecase(t, &fakeProvider{}, &fakePendingRepo{}, &fakeLedger{})

	_, err := uc.CreateTopUp(context.Background(), "u1", decimal.RequireFromString("10"), "btc")
	assert.ErrorIs(t, err, domain.ErrProviderConfig)
}

func TestCreateTopUp_ProviderFailureStoresNothing(t *testing.T) {
	provider := &fakeProvider{configured: true, err: fmt.Errorf("%w: status 400: amountTo is too small", domain.ErrProviderUnavailable)}
	repo := &fakePendingRepo{}
	uc := newTestUsecase(t, provider, repo, &fakeLedger{})

	_, err := uc.CreateTopUp(context.Background(), "u1", decimal.RequireFromString("1"), "btc")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Empty(t, repo.created)
}

func TestGetPendingPayment_ScopedToOwner(t *testing.T) {
	repo := &fakePendingRepo{created: []*domain.PendingPayment{{UserID: "u1", PaymentID: "p1"}}}
	uc := newTestUsecase(t, &fakeProvider{}, repo, &fakeLedger{})

	p, err := uc.GetPendingPayment(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.PaymentID)

	_, err = uc.GetPendingPayment(context.Background(), "u2", "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GetPendingPayment(context.Background(), "u1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListDeposits_AllStatuses(t *testing.T) {
	ledger := &fakeLedger{payments: []*domain.FinalizedPayment{{PaymentID: "p1"}, {PaymentID: "p2"}}}
	uc := newTestUsecase(t, &fakeProvider{}, &fakePendingRepo{}, ledger)

	list, err := uc.ListDeposits(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Empty(t, ledger.statuses)
}
