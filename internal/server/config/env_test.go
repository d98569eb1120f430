package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv_OverlaysValues(t *testing.T) {
	t.Setenv("ADDRESS", ":7070")
	t.Setenv("S3_ACCESS_KEY", "envuser")
	t.Setenv("S3_SECRET_KEY", "envpassword")
	t.Setenv("S3_BUCKET", "envbucket")
	t.Setenv("S3_REGION", "eu-west-1")
	t.Setenv("S3_BASE_ENDPOINT", "http://minio:9000/")
	t.Setenv("LINK_TTL", "900")
	t.Setenv("MAX_UPLOAD_SIZE", "2097152")
	t.Setenv("NOTIFICATION_TTL", "7")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "envuser", cfg.S3AccessKey)
	assert.Equal(t, "envpassword", cfg.S3SecretKey)
	assert.Equal(t, "envbucket", cfg.S3Bucket)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, "http://minio:9000/", cfg.S3BaseEndpoint)
	assert.Equal(t, 900*time.Second, cfg.LinkTTL)
	assert.Equal(t, int64(2<<20), cfg.MaxUploadSize)
	assert.Equal(t, 7*time.Second, cfg.NotificationTTL)
}

func Test_parseEnv_MalformedValuesIgnored(t *testing.T) {
	t.Setenv("LINK_TTL", "sometime")
	t.Setenv("MAX_UPLOAD_SIZE", "huge")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 3600*time.Second, cfg.LinkTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
}
