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
//	-a string   bind address of the HTTP endpoint
//	-s string   JWT signing secret
//	-t int      token validity in minutes
//	-d string   allowed email domain suffix
//	-o int      OTP validity in minutes
//	-k string   SendGrid API key
//	-f string   sender address for outbound mail
//	-m string   model version reported by analytics
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-d", "-o", "-k", "-f", "-m"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "bind address of the HTTP endpoint")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT signing secret")
	tokenValidity := fs.Int("t", int(cfg.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.StringVar(&cfg.AllowedEmailDomain, "d", cfg.AllowedEmailDomain, "allowed email domain suffix")
	otpValidity := fs.Int("o", int(cfg.OTPValidityDuration.Minutes()), "OTP validity (in minutes)")
	fs.StringVar(&cfg.SendgridAPIKey, "k", cfg.SendgridAPIKey, "SendGrid API key")
	fs.StringVar(&cfg.EmailFrom, "f", cfg.EmailFrom, "sender address for outbound mail")
	fs.StringVar(&cfg.ModelVersion, "m", cfg.ModelVersion, "model version reported by analytics")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	cfg.OTPValidityDuration = time.Duration(*otpValidity) * time.Minute
}
