package config

import (
	"flag"
	"os"
	"time"

	"github.com/knowhyco/knowyfile/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l int      share link TTL, seconds
//	-m int      per-file upload size ceiling, bytes
//	-n int      notification TTL, seconds
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in seconds and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-p", "-b", "-g", "-e", "-l", "-m", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	linkTTL := fs.Int("l", int(config.LinkTTL.Seconds()), "share link TTL (in seconds)")
	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size (in bytes)")
	notificationTTL := fs.Int("n", int(config.NotificationTTL.Seconds()), "notification TTL (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.LinkTTL = time.Duration(*linkTTL) * time.Second
	config.NotificationTTL = time.Duration(*notificationTTL) * time.Second
}
