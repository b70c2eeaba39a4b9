package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "local", cfg.StorageDriver)
	require.Equal(t, "postgres", cfg.StoreDriver)
	require.EqualValues(t, 2<<20, cfg.MaxUploadBytes)
	require.Equal(t, "photos", cfg.ESPhotosIndex)
	require.False(t, cfg.NotifyEnabled)
	require.Equal(t, time.Hour, cfg.AccessTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()

	require.Equal(t, "s3", cfg.StorageDriver)
	require.EqualValues(t, 1024, cfg.MaxUploadBytes)
	require.True(t, cfg.S3UsePathStyle)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.EqualValues(t, 10, cfg.DBMaxConns)
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test "}
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "gallery", DBSSLMode: "disable"}
	require.Equal(t, "postgres://u:p@h:5432/gallery?sslmode=disable", cfg.PostgresDSN())
}
