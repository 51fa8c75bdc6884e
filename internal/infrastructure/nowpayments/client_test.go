package nowpayments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStatus_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment/5077125051", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"payment_id": 5077125051,
			"payment_status": "confirming",
			"pay_address": "0xabc",
			"price_amount": 25,
			"price_currency": "usd",
			"pay_amount": 0.0091,
			"pay_currency": "eth",
			"order_id": "ORDER-1",
			"purchase_id": 4471300,
			"burning_percent": null,
			"payment_extra_ids": [1, 2]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second)
	p, err := c.FetchStatus(context.Background(), "5077125051")
	require.NoError(t, err)

	assert.Equal(t, domain.FlexString("5077125051"), p.PaymentID)
	assert.Equal(t, "confirming", p.PaymentStatus)
	assert.Equal(t, "0xabc", p.PayAddress)
	assert.True(t, p.PriceAmount.Decimal.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "4471300", p.PurchaseID.String())
	assert.Contains(t, p.Extra, "payment_extra_ids")
	assert.Contains(t, p.Extra, "burning_percent")
	assert.NotEmpty(t, p.Raw)
}

func TestFetchStatus_Non2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	_, err := c.FetchStatus(context.Background(), "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestFetchStatus_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", 50*time.Millisecond)
	_, err := c.FetchStatus(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestFetchStatus_MalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	_, err := c.FetchStatus(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestMissingAPIKeyIsConfigError(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", "", time.Second)
	assert.False(t, c.Configured())

	_, err := c.FetchStatus(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrProviderConfig)

	_, err = c.CreatePayment(context.Background(), domain.CreatePaymentRequest{})
	assert.ErrorIs(t, err, domain.ErrProviderConfig)
}

func TestCreatePayment_SendsRequestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "usd", body["price_currency"])
		assert.Equal(t, "btc", body["pay_currency"])
		assert.Equal(t, "ORDER-42", body["order_id"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"payment_id":"777","payment_status":"waiting","pay_address":"bc1q","pay_amount":0.0004,"pay_currency":"btc","order_id":"ORDER-42"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "k", time.Second)
	p, err := c.CreatePayment(context.Background(), domain.CreatePaymentRequest{
		PriceAmount:      decimal.RequireFromString("10.5"),
		PriceCurrency:    "usd",
		PayCurrency:      "btc",
		OrderID:          "ORDER-42",
		OrderDescription: "Top-up payment for user u1",
	})
	require.NoError(t, err)
	assert.Equal(t, "777", p.PaymentID.String())
	assert.Equal(t, "waiting", p.PaymentStatus)
	assert.True(t, p.PayAmount.Valid)
}
