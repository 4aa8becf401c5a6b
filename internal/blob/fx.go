package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quotely/internal/blob/filestore"
	"github.com/smallbiznis/quotely/internal/blob/mongostore"
	"github.com/smallbiznis/quotely/internal/blob/redisstore"
	"github.com/smallbiznis/quotely/internal/blob/sqlstore"
	"github.com/smallbiznis/quotely/internal/config"
	obsmetrics "github.com/smallbiznis/quotely/internal/observability/metrics"
	"github.com/smallbiznis/quotely/pkg/db"
	"github.com/smallbiznis/quotely/pkg/telemetry"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CompressionSnappy enables snappy encoding of stored values.
const CompressionSnappy = "snappy"

var (
	ErrUnknownBackend     = errors.New("unknown blob backend")
	ErrUnknownCompression = errors.New("unknown blob compression")
)

var Module = fx.Module("blob",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	Prom      *telemetry.Metrics  `optional:"true"`
	Counters  *obsmetrics.Metrics `optional:"true"`
}

// New opens the configured backend. Remote backends are closed on stop.
func New(p Params) (Store, error) {
	log := p.Log.Named("blob")
	backend := p.Config.Blob.Backend

	compression := strings.ToLower(strings.TrimSpace(p.Config.Blob.Compression))
	if compression != "" && compression != CompressionSnappy {
		return nil, fmt.Errorf("%w %q", ErrUnknownCompression, p.Config.Blob.Compression)
	}

	store, closer, err := open(p.Config)
	if err != nil {
		return nil, fmt.Errorf("open %s blob backend: %w", backend, err)
	}
	if closer != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("closing blob backend", zap.String("backend", backend))
				return closer(ctx)
			},
		})
	}

	if compression == CompressionSnappy {
		store = Snappy(store)
	}

	log.Info("blob backend ready",
		zap.String("backend", backend),
		zap.String("compression", p.Config.Blob.Compression),
	)
	return Instrument(store, backend, p.Prom, p.Counters), nil
}

func open(cfg config.Config) (Store, func(context.Context) error, error) {
	switch cfg.Blob.Backend {
	case config.BlobBackendMemory:
		return NewMemory(), nil, nil
	case config.BlobBackendNone:
		return Disabled{}, nil, nil
	case config.BlobBackendSQL:
		conn, err := db.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := sqlstore.New(conn)
		if err != nil {
			return nil, nil, err
		}
		closeSQL := func(context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return store, closeSQL, nil
	case config.BlobBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return redisstore.New(client, cfg.AppName+":"), func(context.Context) error { return client.Close() }, nil
	case config.BlobBackendMongo:
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		return mongostore.New(client.Database(cfg.MongoDatabase)), client.Disconnect, nil
	case config.BlobBackendFile:
		store, err := filestore.New(cfg.Blob.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w %q (want memory, none, file, sql, redis or mongo)", ErrUnknownBackend, cfg.Blob.Backend)
	}
}
