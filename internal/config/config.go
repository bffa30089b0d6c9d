// Package config resolves tracker settings from flags, environment and an
// optional config file through viper.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"jobtracker/internal/logging"
)

// EnvPrefix is prepended to every environment variable, e.g. JOBTRACK_STORAGE_DRIVER.
const EnvPrefix = "JOBTRACK"

// Keys understood by Load. Environment variables are the upper-cased key
// with EnvPrefix, so KeyStorageDriver maps to JOBTRACK_STORAGE_DRIVER.
const (
	KeyStorageDriver = "storage_driver"
	KeySQLitePath    = "sqlite_path"
	KeyPostgresDSN   = "postgres_dsn"
	KeyRedisAddr     = "redis_addr"
	KeyRedisPassword = "redis_password"
	KeyRedisDB       = "redis_db"
	KeyKeyPrefix     = "key_prefix"
	KeyFSRoot        = "fs_root"
	KeyS3Bucket      = "s3_bucket"
	KeyS3Region      = "s3_region"
	KeyS3Endpoint    = "s3_endpoint"
	KeyS3PathStyle   = "s3_path_style"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
)

// Driver names a durable medium.
type Driver string

// Supported drivers.
const (
	DriverMemory     Driver = "memory"
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
	DriverRedis      Driver = "redis"
	DriverFS         Driver = "fs"
	DriverS3         Driver = "s3"
	DriverBlobMemory Driver = "blob-memory"
)

// Drivers lists every supported driver.
var Drivers = []Driver{DriverMemory, DriverSQLite, DriverPostgres, DriverRedis, DriverFS, DriverS3, DriverBlobMemory}

// Defaults applied when a key is unset.
const (
	DefaultDriver     = DriverSQLite
	DefaultSQLitePath = "./jobtracker.db"
	DefaultFSRoot     = "./jobdata"
	DefaultRedisAddr  = "localhost:6379"
	DefaultS3Region   = "us-east-1"
	DefaultKeyPrefix  = "jobtracker/"
)

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// S3Config configures the s3 driver.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Config captures resolved settings for the tracker.
type Config struct {
	Driver      Driver
	SQLitePath  string
	PostgresDSN string
	Redis       RedisConfig
	// KeyPrefix namespaces collection keys in redis and blob drivers.
	KeyPrefix string
	FSRoot    string
	S3        S3Config
	LogLevel  slog.Level
	LogFormat logging.Format
}

// New returns a viper instance with the env prefix and defaults registered.
func New() *viper.Viper {
	v := viper.New()
	Bind(v)
	return v
}

// Bind registers env lookup and defaults on v.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyStorageDriver, string(DefaultDriver))
	v.SetDefault(KeySQLitePath, DefaultSQLitePath)
	v.SetDefault(KeyFSRoot, DefaultFSRoot)
	v.SetDefault(KeyRedisAddr, DefaultRedisAddr)
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyKeyPrefix, DefaultKeyPrefix)
	v.SetDefault(KeyS3Region, DefaultS3Region)
	v.SetDefault(KeyS3PathStyle, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, string(logging.FormatText))
}

// Load reads every key from v and validates the result. Missing and invalid
// values are collected and reported together.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Driver:      Driver(strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageDriver)))),
		SQLitePath:  strings.TrimSpace(v.GetString(KeySQLitePath)),
		PostgresDSN: strings.TrimSpace(v.GetString(KeyPostgresDSN)),
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString(KeyRedisAddr)),
			Password: v.GetString(KeyRedisPassword),
		},
		KeyPrefix: v.GetString(KeyKeyPrefix),
		FSRoot:    strings.TrimSpace(v.GetString(KeyFSRoot)),
		S3: S3Config{
			Bucket:   strings.TrimSpace(v.GetString(KeyS3Bucket)),
			Region:   strings.TrimSpace(v.GetString(KeyS3Region)),
			Endpoint: strings.TrimSpace(v.GetString(KeyS3Endpoint)),
		},
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if !cfg.Driver.Valid() {
		invalid = append(invalid, envName(KeyStorageDriver))
	}

	db, err := parseInt(v.Get(KeyRedisDB))
	if err != nil || db < 0 {
		invalid = append(invalid, envName(KeyRedisDB))
	} else {
		cfg.Redis.DB = db
	}

	pathStyle, err := parseBool(v.Get(KeyS3PathStyle))
	if err != nil {
		invalid = append(invalid, envName(KeyS3PathStyle))
	} else {
		cfg.S3.PathStyle = pathStyle
	}

	level, err := logging.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		invalid = append(invalid, envName(KeyLogLevel))
	} else {
		cfg.LogLevel = level
	}

	switch format := logging.Format(strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat)))); format {
	case logging.FormatText, logging.FormatJSON:
		cfg.LogFormat = format
	default:
		invalid = append(invalid, envName(KeyLogFormat))
	}

	switch cfg.Driver {
	case DriverPostgres:
		if cfg.PostgresDSN == "" {
			missing = append(missing, envName(KeyPostgresDSN))
		}
	case DriverS3:
		if cfg.S3.Bucket == "" {
			missing = append(missing, envName(KeyS3Bucket))
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			missing = append(missing, envName(KeySQLitePath))
		}
	case DriverRedis:
		if cfg.Redis.Addr == "" {
			missing = append(missing, envName(KeyRedisAddr))
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid settings: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

// Valid reports whether d is a supported driver.
func (d Driver) Valid() bool {
	for _, known := range Drivers {
		if d == known {
			return true
		}
	}
	return false
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

func parseInt(raw any) (int, error) {
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return cast.ToIntE(raw)
}

func parseBool(raw any) (bool, error) {
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return false, nil
	}
	return cast.ToBoolE(raw)
}
