package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultPendingPaymentRepository struct {
	db *gorm.DB
}

func NewDefaultPendingPaymentRepository(db *gorm.DB) *DefaultPendingPaymentRepository {
	return &DefaultPendingPaymentRepository{db: db}
}

func (r *DefaultPendingPaymentRepository) Create(ctx context.Context, payment *domain.PendingPayment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	model := mappers.ToGORMPendingPayment(payment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("%w: create pending payment %s: %v", domain.ErrPersistence, payment.PaymentID, err)
	}

	payment.CreatedAt = model.CreatedAt
	payment.UpdatedAt = model.UpdatedAt
	return nil
}

// ListAll returns every pending row, oldest first.
func (r *DefaultPendingPaymentRepository) ListAll(ctx context.Context) ([]*domain.PendingPayment, error) {
	var pendingModels []*models.PendingPaymentModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&pendingModels).Error; err != nil {
		return nil, fmt.Errorf("%w: list pending payments: %v", domain.ErrPersistence, err)
	}

	payments := make([]*domain.PendingPayment, len(pendingModels))
	for i, model := range pendingModels {
		payments[i] = mappers.ToDomainPendingPayment(model)
	}
	return payments, nil
}

func (r *DefaultPendingPaymentRepository) GetForUser(ctx context.Context, userID, paymentID string) (*domain.PendingPayment, error) {
	var model models.PendingPaymentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND payment_id = ?", userID, paymentID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get pending payment %s: %v", domain.ErrPersistence, paymentID, err)
	}

	return mappers.ToDomainPendingPayment(&model), nil
}

func (r *DefaultPendingPaymentRepository) ApplyUpdate(ctx context.Context, id string, update domain.PendingUpdate) error {
	err := r.db.WithContext(ctx).
		Model(&models.PendingPaymentModel{}).
		Where("id = ?", id).
		Updates(mappers.ToPendingUpdateColumns(update)).Error
	if err != nil {
		return fmt.Errorf("%w: update pending payment %s: %v", domain.ErrPersistence, id, err)
	}
	return nil
}

func (r *DefaultPendingPaymentRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PendingPaymentModel{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete pending payment %s: %v", domain.ErrPersistence, id, err)
	}
	return nil
}
