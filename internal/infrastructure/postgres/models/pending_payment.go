package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PendingPaymentModel struct {
	ID                     string              `gorm:"primaryKey;type:uuid"`
	UserID                 string              `gorm:"not null;index:idx_pending_user"`
	PaymentID              string              `gorm:"not null;uniqueIndex:idx_pending_payment_id"`
	PaymentStatus          string              `gorm:"not null;index:idx_pending_status"`
	PayAddress             string
	PayAmount              decimal.NullDecimal `gorm:"type:numeric"`
	PayCurrency            string
	PriceAmount            decimal.Decimal     `gorm:"type:numeric;not null"`
	PriceCurrency          string              `gorm:"not null"`
	OrderID                string
	OrderDescription       string
	IpnCallbackURL         string
	AmountReceived         decimal.NullDecimal `gorm:"type:numeric"`
	PayinExtraID           string
	PurchaseID             string
	Network                string
	ExpirationEstimateDate string
	ProviderCreatedAt      string
	ProviderUpdatedAt      string
	Raw                    datatypes.JSON      `gorm:"type:jsonb;not null"`
	CreatedAt              time.Time           `gorm:"index:idx_pending_created_at"`
	UpdatedAt              time.Time
}

func (PendingPaymentModel) TableName() string {
	return "pending_payments"
}
