package mappers

import (
	"testing"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestToPendingUpdateColumns_SkipsMissingOptionalValues(t *testing.T) {
	cols := ToPendingUpdateColumns(domain.PendingUpdate{
		PaymentStatus: "confirming",
		PayAmount:     decimal.NewNullDecimal(decimal.RequireFromString("0.01")),
		Raw:           []byte(`{"payment_status":"confirming"}`),
	})

	assert.Equal(t, "confirming", cols["payment_status"])
	assert.Contains(t, cols, "pay_amount")
	assert.Contains(t, cols, "raw")
	assert.NotContains(t, cols, "pay_address")
	assert.NotContains(t, cols, "amount_received")
	assert.NotContains(t, cols, "user_id")
	assert.NotContains(t, cols, "payment_id")
	assert.NotContains(t, cols, "price_amount")
}

func TestToDomainPayment_DecodesProviderResponse(t *testing.T) {
	m := &models.PaymentModel{
		ID:               "id-1",
		UserID:           "u1",
		PaymentID:        "p1",
		Status:           "finished",
		PriceAmount:      decimal.RequireFromString("12.5"),
		ProviderResponse: datatypes.JSON(`{"payment_id":1,"outcome_amount":12.5,"outcome_currency":"usd"}`),
	}

	p, err := ToDomainPayment(m)
	require.NoError(t, err)
	require.NotNil(t, p.ProviderResponse)
	assert.Equal(t, domain.FinalizedStatusFinished, p.Status)
	assert.Equal(t, "usd", p.ProviderResponse.OutcomeCurrency)
	assert.True(t, p.ProviderResponse.OutcomeAmount.Valid)
}

func TestToGORMPayment_StoresRawSnapshot(t *testing.T) {
	var resp domain.ProviderPayment
	raw := []byte(`{"payment_id":"5","payment_status":"finished","fee":{"currency":"btc"}}`)
	require.NoError(t, resp.UnmarshalJSON(raw))

	m, err := ToGORMPayment(&domain.FinalizedPayment{PaymentID: "5", ProviderResponse: &resp})
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(m.ProviderResponse))
}
