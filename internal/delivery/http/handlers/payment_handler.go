package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	paymentRequest "github.com/LavaJover/shvark-topup-service/internal/delivery/http/dto/payment/request"
	paymentResponse "github.com/LavaJover/shvark-topup-service/internal/delivery/http/dto/payment/response"
	"github.com/LavaJover/shvark-topup-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/topup"
	"github.com/gorilla/mux"
)

const maxRequestBody = 1 << 16

type PaymentHandler struct {
	TopUpUsecase topup.TopUpUsecase
	Logger       *slog.Logger
}

func NewPaymentHandler(topUpUsecase topup.TopUpUsecase, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		TopUpUsecase: topUpUsecase,
		Logger:       logger,
	}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req paymentRequest.CreatePaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "priceAmount and payCurrency are required")
		return
	}

	receipt, err := h.TopUpUsecase.CreateTopUp(r.Context(), userID, req.PriceAmount, req.PayCurrency)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentResponse.CreatePaymentResponse{
		PaymentID:   receipt.PaymentID,
		PayAddress:  receipt.PayAddress,
		PayCurrency: receipt.PayCurrency,
		PayAmount:   receipt.PayAmount,
	})
}

func (h *PaymentHandler) GetPendingPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	paymentID := mux.Vars(r)["paymentId"]

	payment, err := h.TopUpUsecase.GetPendingPayment(r.Context(), userID, paymentID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentResponse.PendingPaymentResponse{
		PaymentID:     payment.PaymentID,
		PaymentStatus: payment.PaymentStatus,
		PayAddress:    payment.PayAddress,
		PayCurrency:   payment.PayCurrency,
		PayAmount:     payment.PayAmount,
		PriceAmount:   payment.PriceAmount,
		PriceCurrency: payment.PriceCurrency,
	})
}
