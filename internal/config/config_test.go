package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobtracker/internal/logging"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		KeyStorageDriver, KeySQLitePath, KeyPostgresDSN, KeyRedisAddr, KeyRedisPassword,
		KeyRedisDB, KeyKeyPrefix, KeyFSRoot, KeyS3Bucket, KeyS3Region, KeyS3Endpoint,
		KeyS3PathStyle, KeyLogLevel, KeyLogFormat,
	} {
		t.Setenv(envName(key), "")
		if err := os.Unsetenv(envName(key)); err != nil {
			t.Fatalf("unset %s: %v", envName(key), err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver != DriverSQLite || cfg.SQLitePath != DefaultSQLitePath || cfg.FSRoot != DefaultFSRoot {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Redis.Addr != DefaultRedisAddr || cfg.Redis.DB != 0 || cfg.KeyPrefix != DefaultKeyPrefix {
		t.Fatalf("unexpected redis defaults %+v", cfg)
	}
	if cfg.S3.Region != DefaultS3Region || cfg.S3.PathStyle {
		t.Fatalf("unexpected s3 defaults %+v", cfg.S3)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != logging.FormatText {
		t.Fatalf("unexpected log defaults %v %v", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBTRACK_STORAGE_DRIVER", "S3")
	t.Setenv("JOBTRACK_S3_BUCKET", "tracker")
	t.Setenv("JOBTRACK_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("JOBTRACK_S3_PATH_STYLE", "true")
	t.Setenv("JOBTRACK_REDIS_DB", "3")
	t.Setenv("JOBTRACK_LOG_LEVEL", "debug")
	t.Setenv("JOBTRACK_LOG_FORMAT", "json")

	cfg, err := Load(New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver != DriverS3 || cfg.S3.Bucket != "tracker" || !cfg.S3.PathStyle || cfg.S3.Endpoint != "http://localhost:9000" {
		t.Fatalf("unexpected s3 config %+v", cfg)
	}
	if cfg.Redis.DB != 3 || cfg.LogLevel != slog.LevelDebug || cfg.LogFormat != logging.FormatJSON {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadReportsMissingAndInvalid(t *testing.T) {
	t.Run("missing postgres dsn", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JOBTRACK_STORAGE_DRIVER", "postgres")
		_, err := Load(New())
		if err == nil || err.Error() != "missing required settings: JOBTRACK_POSTGRES_DSN" {
			t.Fatalf("unexpected error %v", err)
		}
	})
	t.Run("missing s3 bucket", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JOBTRACK_STORAGE_DRIVER", "s3")
		if _, err := Load(New()); err == nil || !strings.Contains(err.Error(), "JOBTRACK_S3_BUCKET") {
			t.Fatalf("unexpected error %v", err)
		}
	})
	t.Run("invalid values collected", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JOBTRACK_STORAGE_DRIVER", "floppy")
		t.Setenv("JOBTRACK_REDIS_DB", "-1")
		t.Setenv("JOBTRACK_S3_PATH_STYLE", "maybe")
		t.Setenv("JOBTRACK_LOG_LEVEL", "loud")
		t.Setenv("JOBTRACK_LOG_FORMAT", "xml")
		_, err := Load(New())
		want := "invalid settings: JOBTRACK_STORAGE_DRIVER, JOBTRACK_REDIS_DB, JOBTRACK_S3_PATH_STYLE, JOBTRACK_LOG_LEVEL, JOBTRACK_LOG_FORMAT"
		if err == nil || err.Error() != want {
			t.Fatalf("unexpected error %v", err)
		}
	})
}

func TestLoadFromConfigFileAndOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "jobtrack.yaml")
	body := "storage_driver: fs\nfs_root: /tmp/jobs\nkey_prefix: mine/\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	v := New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}
	t.Setenv("JOBTRACK_FS_ROOT", "/srv/jobs")
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Driver != DriverFS || cfg.KeyPrefix != "mine/" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.FSRoot != "/srv/jobs" {
		t.Fatalf("environment must override file, got %s", cfg.FSRoot)
	}
}

func TestDriverValid(t *testing.T) {
	for _, d := range Drivers {
		if !d.Valid() {
			t.Fatalf("expected %s to be valid", d)
		}
	}
	if Driver("tape").Valid() {
		t.Fatalf("unexpected driver accepted")
	}
}
