package postgres

import (
	"log"
	"time"

	"github.com/LavaJover/shvark-topup-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.TopUpConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.TopUpDB.Dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v\n", err)
	}
	sqlDB.SetMaxOpenConns(cfg.TopUpDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.TopUpDB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db
}
