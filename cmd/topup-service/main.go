package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/app/background"
	"github.com/LavaJover/shvark-topup-service/internal/app/setup"
	"github.com/LavaJover/shvark-topup-service/internal/config"
	"github.com/LavaJover/shvark-topup-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-topup-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-topup-service/internal/delivery/http/middleware"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	slogger := logger.New(cfg.LogConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg, slogger)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	// HTTP API
	router := handlers.NewRouter(handlers.RouterDeps{
		Payments:       handlers.NewPaymentHandler(ucs.TopUpUsecase, slogger),
		Wallet:         handlers.NewWalletHandler(ucs.BalanceUsecase, ucs.TopUpUsecase, slogger),
		Auth:           middleware.NewAuth(cfg.Auth.JWTSecret),
		MetricsHandler: promhttp.Handler(),
		Logger:         slogger,
	})
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// gRPC health
	grpcServer := grpc.NewServer()
	healthHandler := grpcapi.NewHealthHandler(func(ctx context.Context) error {
		sqlDB, err := deps.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}, slogger)
	healthHandler.Register(grpcServer)

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	// Payment status checker
	tasks := background.NewBackgroundTasks(ucs.ReconcileUsecase, deps.PassLock, deps.Metrics, slogger, cfg.Reconcile.Interval)
	tasks.StartAll(ctx)

	go func() {
		slogger.Info("gRPC server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			slogger.Error("gRPC server stopped", "error", err)
			stop()
		}
	}()

	go func() {
		slogger.Info("HTTP server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	healthHandler.Shutdown()
	tasks.Wait()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slogger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()

	deps.Close(shutdownCtx)
	slogger.Info("service stopped")
}
