package response

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type BalanceResponse struct {
	Balance json.Number `json:"balance"`
}

type DepositResponse struct {
	PaymentID        string          `json:"paymentId"`
	OrderID          string          `json:"orderId"`
	OrderDescription string          `json:"orderDescription"`
	PriceAmount      decimal.Decimal `json:"priceAmount"`
	PriceCurrency    string          `json:"priceCurrency"`
	PayCurrency      string          `json:"payCurrency"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type DepositsResponse struct {
	Deposits []DepositResponse `json:"deposits"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
