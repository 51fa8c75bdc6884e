package domain

import (
	"context"
	"time"
)

type PaymentEventType string

const (
	EventPaymentFinalized PaymentEventType = "payment.finalized"
	EventPaymentDiscarded PaymentEventType = "payment.discarded"
)

type PaymentEvent struct {
	Type          PaymentEventType `json:"type"`
	PaymentID     string           `json:"payment_id"`
	OrderID       string           `json:"order_id"`
	UserID        string           `json:"user_id"`
	Status        string           `json:"status"`
	PriceAmount   string           `json:"price_amount"`
	PriceCurrency string           `json:"price_currency"`
	PayCurrency   string           `json:"pay_currency"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// EventPublisher announces terminal payment transitions to other services.
type EventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event PaymentEvent) error
}
