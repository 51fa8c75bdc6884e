package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	walletResponse "github.com/LavaJover/shvark-topup-service/internal/delivery/http/dto/wallet/response"
	"github.com/LavaJover/shvark-topup-service/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, walletResponse.ErrorResponse{Message: message})
}

// writeError maps domain errors onto HTTP statuses. Internal details are
// logged, not returned.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, domain.ErrProviderConfig):
		writeMessage(w, http.StatusInternalServerError, "Payment service not configured")
	case errors.Is(err, domain.ErrProviderUnavailable):
		logger.Error("payment provider request failed", "error", err)
		writeMessage(w, http.StatusBadGateway, "Payment provider unavailable")
	default:
		logger.Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
