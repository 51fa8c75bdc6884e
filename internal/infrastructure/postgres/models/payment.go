package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentModel is a row of the append-only ledger of finalized top-ups.
type PaymentModel struct {
	ID               string          `gorm:"primaryKey;type:uuid"`
	UserID           string          `gorm:"not null;index:idx_payments_user_status"`
	OrderID          string          `gorm:"not null;uniqueIndex:idx_payments_order_id"`
	PriceAmount      decimal.Decimal `gorm:"type:numeric;not null"`
	PriceCurrency    string          `gorm:"not null"`
	OrderDescription string          `gorm:"not null"`
	PayCurrency      string
	PaymentID        string          `gorm:"not null;uniqueIndex:idx_payments_payment_id"`
	Status           string          `gorm:"not null;index:idx_payments_user_status"`
	ProviderResponse datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt        time.Time       `gorm:"index:idx_payments_created_at"`
}

func (PaymentModel) TableName() string {
	return "payments"
}
