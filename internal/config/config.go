// Package config loads runtime settings from defaults, environment
// variables, and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"os"
)

// Dev-only fallbacks. Validate rejects them outside dev mode.
const (
	devSecretKey     = "default-key-change-in-production"
	devAdminPassword = "admin123"
)

// Config holds runtime settings for the unsent server.
type Config struct {
	// Addr is the HTTP bind address.
	Addr string
	// DriverName selects the SQL driver: "sqlite3" or "postgres".
	DriverName string
	// DataSourceName is the driver-specific DSN (file path for sqlite3).
	DataSourceName string
	// SecretKey is the shared key for field encryption and token signing.
	SecretKey string
	// BootstrapUsername and BootstrapPassword seed the Owner admin when
	// no admin with that username exists yet.
	BootstrapUsername string
	BootstrapPassword string
	// Dev permits running without secrets configured, substituting the
	// insecure development defaults.
	Dev bool
}

func (c *Config) loadDefaults() {
	c.Addr = ":8080"
	c.DriverName = "sqlite3"
	c.DataSourceName = "letters.db"
	c.BootstrapUsername = "admin"
}

func (c *Config) loadEnv() {
	if v := os.Getenv("UNSENT_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("UNSENT_DB_DRIVER"); v != "" {
		c.DriverName = v
	}
	if v := os.Getenv("UNSENT_DB_DSN"); v != "" {
		c.DataSourceName = v
	}
	if v := os.Getenv("UNSENT_SECRET_KEY"); v != "" {
		c.SecretKey = v
	}
	if v := os.Getenv("UNSENT_ADMIN_USERNAME"); v != "" {
		c.BootstrapUsername = v
	}
	if v := os.Getenv("UNSENT_ADMIN_PASSWORD"); v != "" {
		c.BootstrapPassword = v
	}
}

func (c *Config) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "http service address")
	fs.StringVar(&c.DriverName, "driver", c.DriverName, "sql driver (sqlite3 or postgres)")
	fs.StringVar(&c.DataSourceName, "dsn", c.DataSourceName, "data source name")
	fs.BoolVar(&c.Dev, "dev", c.Dev, "development mode: allow insecure default secrets")
}

// Validate fails fast when secrets are absent outside dev mode. In dev
// mode the missing values are filled with the insecure defaults.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		if !c.Dev {
			return errors.New("UNSENT_SECRET_KEY is required (or run with -dev)")
		}
		c.SecretKey = devSecretKey
	}
	if c.BootstrapPassword == "" {
		if !c.Dev {
			return errors.New("UNSENT_ADMIN_PASSWORD is required (or run with -dev)")
		}
		c.BootstrapPassword = devAdminPassword
	}
	if c.DriverName != "sqlite3" && c.DriverName != "postgres" {
		return errors.New("driver must be sqlite3 or postgres")
	}
	return nil
}

// Load builds a Config from defaults, environment, and the given flag
// set. The flag set is registered but not parsed; the caller parses it
// so it can add its own flags first.
func Load(fs *flag.FlagSet) *Config {
	cfg := &Config{}
	cfg.loadDefaults()
	cfg.loadEnv()
	cfg.registerFlags(fs)
	return cfg
}
