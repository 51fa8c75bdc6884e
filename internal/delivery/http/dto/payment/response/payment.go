package response

import "github.com/shopspring/decimal"

type CreatePaymentResponse struct {
	PaymentID   string              `json:"paymentId"`
	PayAddress  string              `json:"payAddress"`
	PayCurrency string              `json:"payCurrency"`
	PayAmount   decimal.NullDecimal `json:"payAmount"`
}

type PendingPaymentResponse struct {
	PaymentID     string              `json:"paymentId"`
	PaymentStatus string              `json:"paymentStatus"`
	PayAddress    string              `json:"payAddress"`
	PayCurrency   string              `json:"payCurrency"`
	PayAmount     decimal.NullDecimal `json:"payAmount"`
	PriceAmount   decimal.Decimal     `json:"priceAmount"`
	PriceCurrency string              `json:"priceCurrency"`
}
