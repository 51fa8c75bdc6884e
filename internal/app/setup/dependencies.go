package setup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-topup-service/internal/config"
	"github.com/LavaJover/shvark-topup-service/internal/domain"
	publisher "github.com/LavaJover/shvark-topup-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/migrate"
	snapshots "github.com/LavaJover/shvark-topup-service/internal/infrastructure/mongo"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/nowpayments"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-topup-service/internal/infrastructure/redislock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.TopUpConfig
	Logger       *slog.Logger
	DB           *gorm.DB
	Provider     domain.PaymentProvider
	Publisher    *publisher.DefaultKafkaPublisher
	Archive      *snapshots.SnapshotArchive
	Redis        *redis.Client
	PassLock     domain.PassLock
	Metrics      *metrics.TopUpMetrics
	Repositories *Repositories
}

type Repositories struct {
	PendingRepo domain.PendingPaymentRepository
	Ledger      domain.PaymentLedger
}

// InitializeDependencies connects every backing service. Kafka, MongoDB and
// Redis are optional: an empty address leaves the matching feature off.
func InitializeDependencies(ctx context.Context, cfg *config.TopUpConfig, logger *slog.Logger) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)

	if !cfg.TopUpDB.SkipMigrations {
		if err := migrate.RunMigrations(db, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Provider: nowpayments.NewClient(cfg.NowPayments.BaseURL, cfg.NowPayments.APIKey, cfg.NowPayments.Timeout),
		Metrics:  metrics.NewTopUpMetrics(prometheus.DefaultRegisterer),
		Repositories: &Repositories{
			PendingRepo: repository.NewDefaultPendingPaymentRepository(db),
			Ledger:      repository.NewDefaultPaymentLedger(db),
		},
	}

	if !deps.Provider.Configured() {
		logger.Warn("NOWPAYMENTS_API_KEY is not set, payment creation and status checks are disabled")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		deps.Publisher = publisher.NewDefaultKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info("payment events enabled", "topic", cfg.Kafka.Topic)
	}

	if cfg.Mongo.URI != "" {
		archive, err := snapshots.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, fmt.Errorf("snapshot archive: %w", err)
		}
		deps.Archive = archive
		logger.Info("provider snapshot archive enabled", "collection", cfg.Mongo.Collection)
	}

	passLock, err := initPassLock(ctx, deps)
	if err != nil {
		return nil, fmt.Errorf("pass lock: %w", err)
	}
	deps.PassLock = passLock

	return deps, nil
}

func initPassLock(ctx context.Context, deps *Dependencies) (domain.PassLock, error) {
	cfg := deps.Config
	if cfg.Redis.Addr == "" {
		return redislock.NewLocalPassLock(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	deps.Redis = client

	lockTTL := cfg.Reconcile.LockTTL
	if lockTTL <= 0 {
		lockTTL = 2 * cfg.Reconcile.Interval
	}
	deps.Logger.Info("distributed reconcile lock enabled", "key", cfg.Redis.LockKey, "ttl", lockTTL.String())
	return redislock.NewRedisPassLock(client, cfg.Redis.LockKey, lockTTL)
}

// Close releases the optional clients. The database pool is closed last.
func (d *Dependencies) Close(ctx context.Context) {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn("failed to close kafka writer", "error", err)
		}
	}
	if d.Archive != nil {
		if err := d.Archive.Close(ctx); err != nil {
			d.Logger.Warn("failed to disconnect mongo", "error", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn("failed to close redis", "error", err)
		}
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
