package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/todophotos/internal/flagx"
	"github.com/dmitrijs2005/todophotos/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	Environment      string         `json:"environment"`
	LogLevel         string         `json:"log_level"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	PhotoURLTTL      timex.Duration `json:"photo_url_ttl"`
	SeedTodos        []string       `json:"seed_todos"`
}

// parseJson overlays values from the file named by -c/-config (or
// $TODOS_CONFIG). Only keys present with non-zero values replace what is
// already in config. An unreadable or malformed file panics: the process
// must not start on a half-applied configuration.
func parseJson(config *Config) {

	path := flagx.ConfigPath()

	// nothing to load
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.PhotoURLTTL.Duration > 0 {
		config.PhotoURLTTL = c.PhotoURLTTL.Duration
	}
	if c.SeedTodos != nil {
		config.SeedTodos = c.SeedTodos
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
