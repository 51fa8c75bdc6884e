package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPaymentLedger struct {
	db *gorm.DB
}

func NewDefaultPaymentLedger(db *gorm.DB) *DefaultPaymentLedger {
	return &DefaultPaymentLedger{db: db}
}

// Finalize writes the ledger entry and removes the pending row atomically.
// An entry that already exists for the same payment_id is kept as is, so a
// retried finalization only clears the leftover pending row.
func (l *DefaultPaymentLedger) Finalize(ctx context.Context, payment *domain.FinalizedPayment, pendingID string) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	model, err := mappers.ToGORMPayment(payment)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).Create(model).Error; err != nil {
			return fmt.Errorf("insert payment %s: %w", payment.PaymentID, err)
		}

		if err := tx.Where("id = ?", pendingID).Delete(&models.PendingPaymentModel{}).Error; err != nil {
			return fmt.Errorf("delete pending payment %s: %w", pendingID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: finalize: %v", domain.ErrPersistence, err)
	}

	payment.CreatedAt = model.CreatedAt
	return nil
}

// ListByUser returns the user's ledger entries, newest first. With no
// statuses given every entry is returned.
func (l *DefaultPaymentLedger) ListByUser(ctx context.Context, userID string, statuses ...domain.FinalizedStatus) ([]*domain.FinalizedPayment, error) {
	query := l.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query = query.Where("status IN ?", values)
	}

	var paymentModels []*models.PaymentModel
	if err := query.Order("created_at DESC").Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("%w: list payments of user %s: %v", domain.ErrPersistence, userID, err)
	}

	payments := make([]*domain.FinalizedPayment, 0, len(paymentModels))
	for _, model := range paymentModels {
		payment, err := mappers.ToDomainPayment(model)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		payments = append(payments, payment)
	}
	return payments, nil
}
