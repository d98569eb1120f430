package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables take precedence over it.
//
// Recognized variables:
//
//	ADDRESS            HTTP bind address
//	S3_ACCESS_KEY      S3 access key
//	S3_SECRET_KEY      S3 secret key
//	S3_BUCKET          S3 bucket name
//	S3_REGION          S3 region
//	S3_BASE_ENDPOINT   S3 base endpoint
//	LINK_TTL           share link TTL, seconds
//	MAX_UPLOAD_SIZE    per-file size ceiling, bytes
//	NOTIFICATION_TTL   notification TTL, seconds
//
// Values that fail to parse are ignored rather than treated as fatal, so a
// malformed variable falls back to the previous layer.
func parseEnv(config *Config) {

	// missing .env is not an error
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("S3_ACCESS_KEY"); ok {
		config.S3AccessKey = v
	}
	if v, ok := os.LookupEnv("S3_SECRET_KEY"); ok {
		config.S3SecretKey = v
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
	if v, ok := os.LookupEnv("LINK_TTL"); ok {
		if secs, err := strconv.Atoi(v); err == nil {
			config.LinkTTL = time.Duration(secs) * time.Second
		}
	}
	if v, ok := os.LookupEnv("MAX_UPLOAD_SIZE"); ok {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxUploadSize = size
		}
	}
	if v, ok := os.LookupEnv("NOTIFICATION_TTL"); ok {
		if secs, err := strconv.Atoi(v); err == nil {
			config.NotificationTTL = time.Duration(secs) * time.Second
		}
	}
}
