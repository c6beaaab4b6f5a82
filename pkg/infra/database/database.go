package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// quotaCountersDDL is the only table the gateway owns. The composite primary
// key is what makes the conditional-upsert counter a single round trip.
const quotaCountersDDL = `
CREATE TABLE IF NOT EXISTS quota_counters (
  identifier        text        NOT NULL,
  action            text        NOT NULL,
  count             bigint      NOT NULL DEFAULT 0,
  window_expires_at timestamptz NOT NULL,
  PRIMARY KEY (identifier, action)
)`

// NewDB connects to the hosted relational datastore and ensures the quota
// counter table exists.
func NewDB(logger *logrus.Logger, dsn string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := gormDB.WithContext(ctx).Exec(quotaCountersDDL).Error; err != nil {
		return nil, fmt.Errorf("failed to create quota_counters table: %w", err)
	}

	logger.Info("database connection established")
	return gormDB, nil
}
