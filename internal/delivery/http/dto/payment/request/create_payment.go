package request

import "github.com/shopspring/decimal"

type CreatePaymentRequest struct {
	PriceAmount decimal.Decimal `json:"priceAmount"`
	PayCurrency string          `json:"payCurrency"`
}
