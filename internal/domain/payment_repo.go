package domain

import "context"

type PendingPaymentRepository interface {
	Create(ctx context.Context, payment *PendingPayment) error
	ListAll(ctx context.Context) ([]*PendingPayment, error)
	GetForUser(ctx context.Context, userID, paymentID string) (*PendingPayment, error)
	ApplyUpdate(ctx context.Context, id string, update PendingUpdate) error
	Delete(ctx context.Context, id string) error
}

type PaymentLedger interface {
	// Finalize inserts the ledger entry and deletes the pending row with
	// pendingID in one transaction.
	Finalize(ctx context.Context, payment *FinalizedPayment, pendingID string) error
	ListByUser(ctx context.Context, userID string, statuses ...FinalizedStatus) ([]*FinalizedPayment, error)
}
