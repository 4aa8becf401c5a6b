package db

import (
	"fmt"

	"github.com/smallbiznis/quotely/internal/config"
	obslogger "github.com/smallbiznis/quotely/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
	gormprom "gorm.io/plugin/prometheus"
)

// statsRefreshSeconds is how often connection pool gauges are sampled.
const statsRefreshSeconds = 15

// Open connects to the configured database with zap-backed query logging,
// otel query spans and Prometheus connection pool metrics.
func Open(cfg config.Config) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: obslogger.NewGormLogger(obslogger.DefaultGormLoggerConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBType, err)
	}

	if err := conn.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(cfg.DBName),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}

	if err := conn.Use(gormprom.New(gormprom.Config{
		DBName:          cfg.DBName,
		RefreshInterval: statsRefreshSeconds,
	})); err != nil {
		return nil, fmt.Errorf("register metrics plugin: %w", err)
	}

	return conn, nil
}
