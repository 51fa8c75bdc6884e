package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	walletResponse "github.com/LavaJover/shvark-topup-service/internal/delivery/http/dto/wallet/response"
	"github.com/LavaJover/shvark-topup-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/balance"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/topup"
)

type WalletHandler struct {
	BalanceUsecase balance.BalanceUsecase
	TopUpUsecase   topup.TopUpUsecase
	Logger         *slog.Logger
}

func NewWalletHandler(balanceUsecase balance.BalanceUsecase, topUpUsecase topup.TopUpUsecase, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		BalanceUsecase: balanceUsecase,
		TopUpUsecase:   topUpUsecase,
		Logger:         logger,
	}
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	amount, err := h.BalanceUsecase.GetBalance(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, walletResponse.BalanceResponse{
		Balance: json.Number(amount.StringFixed(2)),
	})
}

func (h *WalletHandler) GetDeposits(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	payments, err := h.TopUpUsecase.ListDeposits(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}

	deposits := make([]walletResponse.DepositResponse, len(payments))
	for i, p := range payments {
		deposits[i] = walletResponse.DepositResponse{
			PaymentID:        p.PaymentID,
			OrderID:          p.OrderID,
			OrderDescription: p.OrderDescription,
			PriceAmount:      p.PriceAmount,
			PriceCurrency:    p.PriceCurrency,
			PayCurrency:      p.PayCurrency,
			Status:           string(p.Status),
			CreatedAt:        p.CreatedAt,
		}
	}

	writeJSON(w, http.StatusOK, walletResponse.DepositsResponse{Deposits: deposits})
}
