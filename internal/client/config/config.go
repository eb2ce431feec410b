// Package config holds settings for the interactive todo client. Values are
// layered the same way as on the server: defaults, then an optional JSON
// file, then command-line flags.
package config

import "time"

type Config struct {
	ServerURL      string
	HealthAddr     string
	RequestTimeout time.Duration
}

// LoadDefaults points the client at a locally running server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
