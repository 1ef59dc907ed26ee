package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default dataset locations, overridable per deployment.
const (
	DefaultPledgesURL  = "https://storage.googleapis.com/plotly-app-challenge/one-for-the-world-pledges.json"
	DefaultPaymentsURL = "https://storage.googleapis.com/plotly-app-challenge/one-for-the-world-payments.json"
)

type Config struct {
	// HTTP Server
	Port string

	// Dataset locations (URLs or file paths)
	PledgesLocation  string
	PaymentsLocation string
	FetchTimeout     time.Duration

	// Backend selection: remote fetch or local snapshot
	DataBackend    string
	SnapshotDBPath string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		PledgesLocation:  getEnv("PLEDGES_LOCATION", DefaultPledgesURL),
		PaymentsLocation: getEnv("PAYMENTS_LOCATION", DefaultPaymentsURL),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", 30*time.Second),

		DataBackend:    getEnv("DATA_BACKEND", "remote"),
		SnapshotDBPath: getEnv("SNAPSHOT_DB_PATH", "./data/pledgeboard.db"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "remote":
		if c.PledgesLocation == "" {
			errors = append(errors, "pledges location cannot be empty")
		} else if err := checkLocation(c.PledgesLocation); err != nil {
			errors = append(errors, fmt.Sprintf("invalid pledges location '%s': %v", c.PledgesLocation, err))
		}
		if c.PaymentsLocation == "" {
			errors = append(errors, "payments location cannot be empty")
		} else if err := checkLocation(c.PaymentsLocation); err != nil {
			errors = append(errors, fmt.Sprintf("invalid payments location '%s': %v", c.PaymentsLocation, err))
		}
	case "snapshot":
		if c.SnapshotDBPath == "" {
			errors = append(errors, "snapshot database path cannot be empty when using snapshot backend")
		} else {
			dir := filepath.Dir(c.SnapshotDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create snapshot directory '%s': %v", dir, err))
					}
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [remote snapshot]", c.DataBackend))
	}

	if c.FetchTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at least 1 second", c.FetchTimeout))
	} else if c.FetchTimeout > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at most 10 minutes", c.FetchTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func checkLocation(loc string) error {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		_, err := url.Parse(loc)
		return err
	}
	// file paths are checked lazily at load time
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
