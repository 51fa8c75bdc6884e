package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FinalizedStatus string

const (
	FinalizedStatusFinished FinalizedStatus = "finished"
	FinalizedStatusPaid     FinalizedStatus = "paid"
)

const DefaultPriceCurrency = "usd"

// PendingPayment is a top-up whose outcome the provider has not settled yet.
// UserID, PaymentID, PriceAmount, PriceCurrency, OrderID and OrderDescription
// are fixed at creation; the rest mirrors the latest provider snapshot.
type PendingPayment struct {
	ID                     string
	UserID                 string
	PaymentID              string
	PaymentStatus          string
	PayAddress             string
	PayAmount              decimal.NullDecimal
	PayCurrency            string
	PriceAmount            decimal.Decimal
	PriceCurrency          string
	OrderID                string
	OrderDescription       string
	IpnCallbackURL         string
	AmountReceived         decimal.NullDecimal
	PayinExtraID           string
	PurchaseID             string
	Network                string
	ExpirationEstimateDate string
	ProviderCreatedAt      string
	ProviderUpdatedAt      string
	Raw                    []byte
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PendingUpdate carries the mutable fields refreshed by a status poll.
// Empty/invalid optional values leave the stored column untouched.
type PendingUpdate struct {
	PaymentStatus     string
	PayAddress        string
	PayAmount         decimal.NullDecimal
	PayCurrency       string
	AmountReceived    decimal.NullDecimal
	PayinExtraID      string
	PurchaseID        string
	ProviderUpdatedAt string
	Raw               []byte
}

// FinalizedPayment is a ledger entry. It is written once and never changed.
type FinalizedPayment struct {
	ID               string
	UserID           string
	OrderID          string
	PriceAmount      decimal.Decimal
	PriceCurrency    string
	OrderDescription string
	PayCurrency      string
	PaymentID        string
	Status           FinalizedStatus
	ProviderResponse *ProviderPayment
	CreatedAt        time.Time
}

type TopUpReceipt struct {
	PaymentID   string              `json:"paymentId"`
	PayAddress  string              `json:"payAddress"`
	PayCurrency string              `json:"payCurrency"`
	PayAmount   decimal.NullDecimal `json:"payAmount"`
}
