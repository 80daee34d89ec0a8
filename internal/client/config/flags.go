package config

import (
	"flag"
	"os"
	"time"

	"dropwatch/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend server
//	-s string   path of the local session database
//	-d string   allowed email domain suffix
//	-t int      request timeout in seconds
//
// Args are filtered to the flags handled here so other components can parse
// their own flags from the same command line.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-t"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend server")
	fs.StringVar(&cfg.SessionFile, "s", cfg.SessionFile, "path of the local session database")
	fs.StringVar(&cfg.AllowedEmailDomain, "d", cfg.AllowedEmailDomain, "allowed email domain suffix")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
