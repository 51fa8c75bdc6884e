package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentProvider interface {
	// Configured reports whether credentials are present. A reconcile pass
	// without credentials has nothing to do.
	Configured() bool
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*ProviderPayment, error)
	FetchStatus(ctx context.Context, paymentID string) (*ProviderPayment, error)
}

type CreatePaymentRequest struct {
	PriceAmount      decimal.Decimal `json:"price_amount"`
	PriceCurrency    string          `json:"price_currency"`
	PayCurrency      string          `json:"pay_currency"`
	IpnCallbackURL   string          `json:"ipn_callback_url,omitempty"`
	OrderID          string          `json:"order_id"`
	OrderDescription string          `json:"order_description"`
}

// FlexString decodes a JSON string, number or null. The provider sends some
// identifiers as numbers on one endpoint and as strings on another.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// ProviderPayment is the provider's view of a payment. Fields the service
// does not model are kept in Extra, and Raw holds the exact bytes received.
type ProviderPayment struct {
	PaymentID              FlexString          `json:"payment_id"`
	InvoiceID              FlexString          `json:"invoice_id"`
	PaymentStatus          string              `json:"payment_status"`
	PayAddress             string              `json:"pay_address,omitempty"`
	PayinExtraID           FlexString          `json:"payin_extra_id"`
	PriceAmount            decimal.NullDecimal `json:"price_amount"`
	PriceCurrency          string              `json:"price_currency,omitempty"`
	PayAmount              decimal.NullDecimal `json:"pay_amount"`
	ActuallyPaid           decimal.NullDecimal `json:"actually_paid"`
	AmountReceived         decimal.NullDecimal `json:"amount_received"`
	PayCurrency            string              `json:"pay_currency,omitempty"`
	OrderID                string              `json:"order_id,omitempty"`
	OrderDescription       string              `json:"order_description,omitempty"`
	IpnCallbackURL         string              `json:"ipn_callback_url,omitempty"`
	PurchaseID             FlexString          `json:"purchase_id"`
	OutcomeAmount          decimal.NullDecimal `json:"outcome_amount"`
	OutcomeCurrency        string              `json:"outcome_currency,omitempty"`
	Network                string              `json:"network,omitempty"`
	ExpirationEstimateDate string              `json:"expiration_estimate_date,omitempty"`
	CreatedAt              string              `json:"created_at,omitempty"`
	UpdatedAt              string              `json:"updated_at,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
	Raw   json.RawMessage            `json:"-"`
}

type providerPaymentFields ProviderPayment

var knownProviderFields = jsonFieldNames(reflect.TypeOf(providerPaymentFields{}))

func jsonFieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (p *ProviderPayment) UnmarshalJSON(data []byte) error {
	var fields providerPaymentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var rest map[string]json.RawMessage
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	for _, name := range knownProviderFields {
		delete(rest, name)
	}

	*p = ProviderPayment(fields)
	if len(rest) > 0 {
		p.Extra = rest
	}
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (p ProviderPayment) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(providerPaymentFields(p))
	if err != nil || len(p.Extra) == 0 {
		return known, err
	}
	merged := make(map[string]json.RawMessage, len(knownProviderFields)+len(p.Extra))
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Snapshot returns the payload to persist as the raw audit copy.
func (p *ProviderPayment) Snapshot() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(p)
}

// NormalizedStatus is the lower-cased provider status used for classification.
func (p *ProviderPayment) NormalizedStatus() string {
	return strings.ToLower(p.PaymentStatus)
}
