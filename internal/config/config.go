package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	CRMAddress      string
	NotifyAddress   string
	PayanchorSecret string
	BrightpaySecret string
	OpsAPIKeyHash   string
	OpsEmail        string
	SMSEnabled      bool

	StreakMinTotal   float64
	StreakTargetDays int

	RetryScanInterval time.Duration
	RetryBatchSize    int
	RetryMaxAttempts  int
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultOpsEmail          = "ops@meridianshop.example"
	defaultStreakMinTotal    = 1000
	defaultStreakTargetDays  = 7
	defaultRetryScanInterval = time.Minute
	defaultRetryBatchSize    = 16
	defaultRetryMaxAttempts  = 5
	defaultWorkerPoolSize    = 4
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		CRMAddress:        getString(lookup, "CRM_SYNC_ADDRESS", ""),
		NotifyAddress:     getString(lookup, "NOTIFY_SERVICE_ADDRESS", ""),
		PayanchorSecret:   getString(lookup, "PAYANCHOR_WEBHOOK_SECRET", ""),
		BrightpaySecret:   getString(lookup, "BRIGHTPAY_WEBHOOK_SECRET", ""),
		OpsAPIKeyHash:     getString(lookup, "OPS_API_KEY_HASH", ""),
		OpsEmail:          getString(lookup, "OPS_NOTIFY_EMAIL", defaultOpsEmail),
		SMSEnabled:        getBool(lookup, "SMS_ENABLED", false),
		StreakMinTotal:    getFloat(lookup, "STREAK_MIN_TOTAL", defaultStreakMinTotal),
		StreakTargetDays:  getInt(lookup, "STREAK_TARGET_DAYS", defaultStreakTargetDays),
		RetryScanInterval: getDuration(lookup, "RETRY_SCAN_INTERVAL", defaultRetryScanInterval),
		RetryBatchSize:    getInt(lookup, "RETRY_BATCH_SIZE", defaultRetryBatchSize),
		RetryMaxAttempts:  getInt(lookup, "RETRY_MAX_ATTEMPTS", defaultRetryMaxAttempts),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("paygate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		scanIntervalStr    = cfg.RetryScanInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.CRMAddress, "crm", cfg.CRMAddress, "CRM/loyalty sync base URL")
	fs.StringVar(&cfg.NotifyAddress, "notify", cfg.NotifyAddress, "Notification service base URL")
	fs.StringVar(&cfg.OpsEmail, "ops-email", cfg.OpsEmail, "Operations notification address")
	fs.BoolVar(&cfg.SMSEnabled, "sms", cfg.SMSEnabled, "Send SMS payment confirmations")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent retry workers")
	fs.StringVar(&scanIntervalStr, "retry-interval", scanIntervalStr, "Interval between failure-ledger scans")
	fs.IntVar(&cfg.RetryBatchSize, "retry-batch", cfg.RetryBatchSize, "Maximum failure records per scan")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RetryScanInterval, err = time.ParseDuration(scanIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid retry interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	secretFiles := map[string]*string{
		"PAYANCHOR_WEBHOOK_SECRET_FILE": &cfg.PayanchorSecret,
		"BRIGHTPAY_WEBHOOK_SECRET_FILE": &cfg.BrightpaySecret,
		"OPS_API_KEY_HASH_FILE":         &cfg.OpsAPIKeyHash,
	}
	for env, target := range secretFiles {
		if path, ok := lookup(env); ok && path != "" {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read secret file %s: %w", env, err)
			}
			*target = strings.TrimSpace(string(content))
		}
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.RetryBatchSize <= 0 {
		cfg.RetryBatchSize = defaultRetryBatchSize
	}

	if cfg.RetryMaxAttempts <= 0 {
		cfg.RetryMaxAttempts = defaultRetryMaxAttempts
	}

	if cfg.RetryScanInterval <= 0 {
		cfg.RetryScanInterval = defaultRetryScanInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.StreakTargetDays <= 0 {
		cfg.StreakTargetDays = defaultStreakTargetDays
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.CRMAddress == "" {
		return nil, fmt.Errorf("CRM sync address must be provided")
	}

	if cfg.NotifyAddress == "" {
		return nil, fmt.Errorf("notification service address must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
