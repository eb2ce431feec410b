// Package config handles configuration for the todo server, layering
// defaults, an optional JSON file, environment variables and command-line
// flags (in that order, later layers win).
package config

import "time"

// Config holds runtime settings for the todo server.
//
// An empty S3Bucket disables photo storage: the service keeps running and
// every photo operation degrades instead of failing at startup.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string
	Environment      string
	LogLevel         string
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	PhotoURLTTL      time.Duration
	SeedTodos        []string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.Environment = "development"
	c.LogLevel = "info"
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.PhotoURLTTL = time.Hour
	c.SeedTodos = []string{"Learn Go", "Attach a photo to a todo"}
}

// StorageConfigured reports whether an object-store bucket has been set.
func (c *Config) StorageConfigured() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
