package setup

import (
	"io"
	"log/slog"
	"testing"

	"github.com/LavaJover/shvark-topup-service/internal/config"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/nowpayments"
	"github.com/LavaJover/shvark-topup-service/internal/usecase/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeUseCases_OptionalDepsStayNil(t *testing.T) {
	cfg := &config.TopUpConfig{}
	cfg.Reconcile.Workers = 3

	deps := &Dependencies{
		Config:       cfg,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Provider:     nowpayments.NewClient("http://localhost", "", 0),
		Repositories: &Repositories{},
	}

	ucs, err := InitializeUseCases(deps)
	require.NoError(t, err)

	engine, ok := ucs.ReconcileUsecase.(*reconcile.DefaultReconcileUsecase)
	require.True(t, ok)
	assert.Nil(t, engine.Publisher)
	assert.Nil(t, engine.Archive)
	assert.Equal(t, 3, engine.Workers)
	assert.NotNil(t, ucs.TopUpUsecase)
	assert.NotNil(t, ucs.BalanceUsecase)
}
