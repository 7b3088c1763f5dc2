package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-G string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   session token HMAC secret
//	-t int      session validity, minutes
//	-k string   session store: postgres or redis
//	-R string   Redis address
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name (empty disables exports)
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      export link validity, minutes
//
// os.Args is first filtered to these flags with flagx.FilterArgs, so -c and
// -env (handled by other layers) do not trip the parser.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-G", "-d", "-s", "-t", "-k", "-R", "-l", "-u", "-p", "-b", "-g", "-e", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&config.GRPCAddr, "G", config.GRPCAddr, "gRPC address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session validity duration (in minutes)")

	fs.StringVar(&config.SessionStore, "k", config.SessionStore, "session store (postgres|redis)")
	fs.StringVar(&config.RedisAddr, "R", config.RedisAddr, "Redis address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	exportValidity := fs.Int("x", int(config.ExportLinkValidity.Minutes()), "export link validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	// minute flags only replace durations that were given explicitly,
	// so sub-minute values from JSON or env survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
		case "x":
			config.ExportLinkValidity = time.Duration(*exportValidity) * time.Minute
		}
	})

	return config.Validate()
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SessionStore != SessionStorePostgres && c.SessionStore != SessionStoreRedis {
		errs = append(errs, fmt.Errorf("unknown session store %q", c.SessionStore))
	}
	if c.SessionValidityDuration <= 0 {
		errs = append(errs, errors.New("session validity must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range 4..31", c.BcryptCost))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	return errors.Join(errs...)
}
