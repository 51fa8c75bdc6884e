package grpcapi

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ReconcilerService is the service name reported for the reconcile loop.
const ReconcilerService = "topup.Reconciler"

// Probe checks a dependency the service cannot work without.
type Probe func(ctx context.Context) error

// HealthHandler serves grpc.health.v1. Check runs the probe on every call
// so a lost database connection is reported without waiting for a pass.
type HealthHandler struct {
	*health.Server
	probe  Probe
	logger *slog.Logger
}

func NewHealthHandler(probe Probe, logger *slog.Logger) *HealthHandler {
	h := &HealthHandler{
		Server: health.NewServer(),
		probe:  probe,
		logger: logger,
	}
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(ReconcilerService, healthpb.HealthCheckResponse_SERVING)
	return h
}

func (h *HealthHandler) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	resp, err := h.Server.Check(ctx, req)
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return resp, err
	}

	if h.probe != nil {
		if err := h.probe(ctx); err != nil {
			h.logger.Warn("health probe failed", "service", req.GetService(), "error", err)
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return resp, nil
}

// Register attaches the handler to srv.
func (h *HealthHandler) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, h)
}
