package config

import (
	"os"
	"time"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddr    = "TODOS_HTTP_ADDR"
	EnvGRPCAddr    = "TODOS_GRPC_ADDR"
	EnvEnvironment = "TODOS_ENV"
	EnvLogLevel    = "TODOS_LOG_LEVEL"
	EnvPhotoURLTTL = "TODOS_PHOTO_URL_TTL"
	EnvS3Bucket    = "S3_BUCKET"
	EnvS3Region    = "S3_REGION"
	EnvS3Endpoint  = "S3_ENDPOINT"
	EnvS3User      = "S3_ACCESS_KEY_ID"
	EnvS3Password  = "S3_SECRET_ACCESS_KEY"
)

// parseEnv overrides config from the process environment. Unset or empty
// variables leave the current value alone; an unparsable TTL is ignored.
func parseEnv(config *Config) {
	setString(&config.EndpointAddrHTTP, os.Getenv(EnvHTTPAddr))
	setString(&config.EndpointAddrGRPC, os.Getenv(EnvGRPCAddr))
	setString(&config.Environment, os.Getenv(EnvEnvironment))
	setString(&config.LogLevel, os.Getenv(EnvLogLevel))
	setString(&config.S3Bucket, os.Getenv(EnvS3Bucket))
	setString(&config.S3Region, os.Getenv(EnvS3Region))
	setString(&config.S3BaseEndpoint, os.Getenv(EnvS3Endpoint))
	setString(&config.S3RootUser, os.Getenv(EnvS3User))
	setString(&config.S3RootPassword, os.Getenv(EnvS3Password))

	if v := os.Getenv(EnvPhotoURLTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.PhotoURLTTL = d
		}
	}
}
