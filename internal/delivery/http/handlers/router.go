package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/delivery/http/middleware"
	"github.com/gorilla/mux"
)

type RouterDeps struct {
	Payments       *PaymentHandler
	Wallet         *WalletHandler
	Auth           *middleware.Auth
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

func NewRouter(deps RouterDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger(deps.Logger))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if deps.MetricsHandler != nil {
		router.Handle("/metrics", deps.MetricsHandler).Methods(http.MethodGet)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.Use(deps.Auth.Middleware)

	api.HandleFunc("/payment/create-payment", deps.Payments.CreatePayment).Methods(http.MethodPost)
	api.HandleFunc("/payment/pending/{paymentId}", deps.Payments.GetPendingPayment).Methods(http.MethodGet)
	api.HandleFunc("/wallet/balance", deps.Wallet.GetBalance).Methods(http.MethodGet)
	api.HandleFunc("/wallet/deposits", deps.Wallet.GetDeposits).Methods(http.MethodGet)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}
