package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/todophotos/internal/flagx"
)

// parseFlags applies:
//
//	-s string   base URL of the todo HTTP API
//	-g string   host:port of the gRPC health endpoint
//	-t int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-g", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the todo API")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address of the gRPC health endpoint")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *timeout > 0 {
		cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	}
}
