package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-topup-service/internal/domain"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres/models"
	"gorm.io/datatypes"
)

func ToGORMPendingPayment(p *domain.PendingPayment) *models.PendingPaymentModel {
	return &models.PendingPaymentModel{
		ID:                     p.ID,
		UserID:                 p.UserID,
		PaymentID:              p.PaymentID,
		PaymentStatus:          p.PaymentStatus,
		PayAddress:             p.PayAddress,
		PayAmount:              p.PayAmount,
		PayCurrency:            p.PayCurrency,
		PriceAmount:            p.PriceAmount,
		PriceCurrency:          p.PriceCurrency,
		OrderID:                p.OrderID,
		OrderDescription:       p.OrderDescription,
		IpnCallbackURL:         p.IpnCallbackURL,
		AmountReceived:         p.AmountReceived,
		PayinExtraID:           p.PayinExtraID,
		PurchaseID:             p.PurchaseID,
		Network:                p.Network,
		ExpirationEstimateDate: p.ExpirationEstimateDate,
		ProviderCreatedAt:      p.ProviderCreatedAt,
		ProviderUpdatedAt:      p.ProviderUpdatedAt,
		Raw:                    datatypes.JSON(rawOrEmpty(p.Raw)),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

func ToDomainPendingPayment(m *models.PendingPaymentModel) *domain.PendingPayment {
	return &domain.PendingPayment{
		ID:                     m.ID,
		UserID:                 m.UserID,
		PaymentID:              m.PaymentID,
		PaymentStatus:          m.PaymentStatus,
		PayAddress:             m.PayAddress,
		PayAmount:              m.PayAmount,
		PayCurrency:            m.PayCurrency,
		PriceAmount:            m.PriceAmount,
		PriceCurrency:          m.PriceCurrency,
		OrderID:                m.OrderID,
		OrderDescription:       m.OrderDescription,
		IpnCallbackURL:         m.IpnCallbackURL,
		AmountReceived:         m.AmountReceived,
		PayinExtraID:           m.PayinExtraID,
		PurchaseID:             m.PurchaseID,
		Network:                m.Network,
		ExpirationEstimateDate: m.ExpirationEstimateDate,
		ProviderCreatedAt:      m.ProviderCreatedAt,
		ProviderUpdatedAt:      m.ProviderUpdatedAt,
		Raw:                    []byte(m.Raw),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// ToPendingUpdateColumns lists the columns a status poll overwrites.
// Optional values the provider left out keep their stored value.
func ToPendingUpdateColumns(u domain.PendingUpdate) map[string]interface{} {
	cols := map[string]interface{}{
		"payment_status": u.PaymentStatus,
		"raw":            datatypes.JSON(rawOrEmpty(u.Raw)),
	}
	if u.PayAddress != "" {
		cols["pay_address"] = u.PayAddress
	}
	if u.PayAmount.Valid {
		cols["pay_amount"] = u.PayAmount
	}
	if u.PayCurrency != "" {
		cols["pay_currency"] = u.PayCurrency
	}
	if u.AmountReceived.Valid {
		cols["amount_received"] = u.AmountReceived
	}
	if u.PayinExtraID != "" {
		cols["payin_extra_id"] = u.PayinExtraID
	}
	if u.PurchaseID != "" {
		cols["purchase_id"] = u.PurchaseID
	}
	if u.ProviderUpdatedAt != "" {
		cols["provider_updated_at"] = u.ProviderUpdatedAt
	}
	return cols
}

func ToGORMPayment(p *domain.FinalizedPayment) (*models.PaymentModel, error) {
	var snapshot datatypes.JSON
	if p.ProviderResponse != nil {
		raw, err := p.ProviderResponse.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("failed to encode provider response: %w", err)
		}
		snapshot = datatypes.JSON(raw)
	}

	return &models.PaymentModel{
		ID:               p.ID,
		UserID:           p.UserID,
		OrderID:          p.OrderID,
		PriceAmount:      p.PriceAmount,
		PriceCurrency:    p.PriceCurrency,
		OrderDescription: p.OrderDescription,
		PayCurrency:      p.PayCurrency,
		PaymentID:        p.PaymentID,
		Status:           string(p.Status),
		ProviderResponse: snapshot,
		CreatedAt:        p.CreatedAt,
	}, nil
}

func ToDomainPayment(m *models.PaymentModel) (*domain.FinalizedPayment, error) {
	payment := &domain.FinalizedPayment{
		ID:               m.ID,
		UserID:           m.UserID,
		OrderID:          m.OrderID,
		PriceAmount:      m.PriceAmount,
		PriceCurrency:    m.PriceCurrency,
		OrderDescription: m.OrderDescription,
		PayCurrency:      m.PayCurrency,
		PaymentID:        m.PaymentID,
		Status:           domain.FinalizedStatus(m.Status),
		CreatedAt:        m.CreatedAt,
	}

	if len(m.ProviderResponse) > 0 {
		var response domain.ProviderPayment
		if err := json.Unmarshal(m.ProviderResponse, &response); err != nil {
			return nil, fmt.Errorf("failed to decode provider response of payment %s: %w", m.PaymentID, err)
		}
		payment.ProviderResponse = &response
	}

	return payment, nil
}

func rawOrEmpty(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return raw
}
