package core

import (
	"context"
	"fmt"

	"jobtracker/internal/blob"
	"jobtracker/internal/config"
	"jobtracker/internal/infra/persistence/memory"
	"jobtracker/internal/infra/persistence/postgres"
	redisstore "jobtracker/internal/infra/persistence/redis"
	"jobtracker/internal/infra/persistence/sqlite"
	"jobtracker/pkg/domain"
)

// OpenMedium selects a durable medium from configuration. Defaults to sqlite
// when no driver is set.
func OpenMedium(ctx context.Context, cfg config.Config) (domain.Medium, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultDriver
	}
	switch driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	case config.DriverRedis:
		return redisstore.NewStore(ctx, redisstore.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.KeyPrefix,
		})
	case config.DriverFS, config.DriverS3, config.DriverBlobMemory:
		store, err := blob.Open(ctx, blobOptions(driver, cfg))
		if err != nil {
			return nil, err
		}
		return NewBlobMedium(store, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

func blobOptions(driver config.Driver, cfg config.Config) blob.Options {
	opts := blob.Options{
		FSRoot: cfg.FSRoot,
		S3: blob.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		},
	}
	switch driver {
	case config.DriverS3:
		opts.Driver = blob.DriverS3
	case config.DriverBlobMemory:
		opts.Driver = blob.DriverMemory
	default:
		opts.Driver = blob.DriverFilesystem
	}
	return opts
}
