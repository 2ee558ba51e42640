package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Source drivers.
const (
	DriverFS = "fs"
	DriverS3 = "s3"
)

// Config holds all loader settings, populated from environment variables.
type Config struct {
	SourceDriver string
	WeightsPath  string
	WalletPath   string
	MATPath      string // optional; empty skips MAT numbers

	// S3 source configuration, used when SourceDriver is "s3".
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	EnergyToleranceKeV float64
	LoadTimeout        time.Duration
	LoadRetries        int
	LoadRetryBackoff   time.Duration

	MetricsTextfile string
	LogLevel        string
	LogFormat       string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	tolerance, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("ENERGY_TOLERANCE_KEV", "2"), 64)
	if err != nil || tolerance <= 0 {
		return nil, errors.New("invalid ENERGY_TOLERANCE_KEV: must be a positive number")
	}

	loadTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("LOAD_TIMEOUT", "30s"))
	if err != nil || loadTimeout <= 0 {
		return nil, errors.New("invalid LOAD_TIMEOUT: must be a positive duration")
	}

	retries, err := strconv.Atoi(sharedcfg.EnvOrDefault("LOAD_RETRIES", "3"))
	if err != nil || retries < 1 || retries > 10 {
		return nil, errors.New("invalid LOAD_RETRIES: must be 1-10")
	}

	backoff, err := time.ParseDuration(sharedcfg.EnvOrDefault("LOAD_RETRY_BACKOFF", "200ms"))
	if err != nil || backoff <= 0 {
		return nil, errors.New("invalid LOAD_RETRY_BACKOFF: must be a positive duration")
	}

	cfg := &Config{
		SourceDriver:       strings.ToLower(sharedcfg.EnvOrDefault("NUCLIDE_SOURCE_DRIVER", DriverFS)),
		WeightsPath:        sharedcfg.EnvOrDefault("NUCLIDE_WEIGHTS_PATH", "data/atomic_weights.txt"),
		WalletPath:         sharedcfg.EnvOrDefault("NUCLIDE_WALLET_PATH", "data/wallet_cards.txt"),
		MATPath:            sharedcfg.EnvOrDefault("NUCLIDE_MAT_PATH", ""),
		S3Bucket:           sharedcfg.EnvOrDefault("NUCLIDE_S3_BUCKET", ""),
		S3Region:           sharedcfg.EnvOrDefault("NUCLIDE_S3_REGION", "us-east-1"),
		S3Endpoint:         sharedcfg.EnvOrDefault("NUCLIDE_S3_ENDPOINT", ""),
		S3PathStyle:        strings.EqualFold(sharedcfg.EnvOrDefault("NUCLIDE_S3_PATH_STYLE", "false"), "true"),
		EnergyToleranceKeV: tolerance,
		LoadTimeout:        loadTimeout,
		LoadRetries:        retries,
		LoadRetryBackoff:   backoff,
		MetricsTextfile:    sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
	}

	switch cfg.SourceDriver {
	case DriverFS:
	case DriverS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("NUCLIDE_S3_BUCKET is required for the s3 source driver")
		}
	default:
		return nil, errors.New("invalid NUCLIDE_SOURCE_DRIVER: must be fs or s3")
	}
	return cfg, nil
}

// EnergyToleranceMeV returns the configured level-matching window in MeV.
func (c *Config) EnergyToleranceMeV() float64 {
	return c.EnergyToleranceKeV / 1000
}
