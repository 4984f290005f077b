package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	GatewayAddress       string
	PaymentReturnURL     string
	JWTSecret            string
	InternalToken        string
	DefaultShippingFee   decimal.Decimal
	ReconcileMaxAttempts int
	ReconcileDelayUnit   time.Duration
	SweepInterval        time.Duration
	SweepBatchSize       int
	StalePaymentAge      time.Duration
	WorkerPoolSize       int
	ShutdownTimeout      time.Duration
}

const (
	defaultRunAddress           = ":8080"
	defaultJWTSecret            = "change-me-in-production"
	defaultShippingFee          = "50"
	defaultReconcileMaxAttempts = 5
	defaultReconcileDelayUnit   = time.Second
	defaultSweepInterval        = time.Minute
	defaultSweepBatchSize       = 32
	defaultStalePaymentAge      = 15 * time.Minute
	defaultWorkerPoolSize       = 4
	defaultShutdownTimeout      = 10 * time.Second
)

// Load parses configuration from flags and environment variables. A .env
// file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:       getString(lookup, "PAYMENT_GATEWAY_ADDRESS", ""),
		PaymentReturnURL:     getString(lookup, "PAYMENT_RETURN_URL", ""),
		JWTSecret:            getString(lookup, "JWT_SECRET", defaultJWTSecret),
		InternalToken:        getString(lookup, "INTERNAL_TOKEN", ""),
		ReconcileMaxAttempts: getInt(lookup, "RECONCILE_MAX_ATTEMPTS", defaultReconcileMaxAttempts),
		ReconcileDelayUnit:   getDuration(lookup, "RECONCILE_DELAY_UNIT", defaultReconcileDelayUnit),
		SweepInterval:        getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		SweepBatchSize:       getInt(lookup, "SWEEP_BATCH_SIZE", defaultSweepBatchSize),
		StalePaymentAge:      getDuration(lookup, "STALE_PAYMENT_AGE", defaultStalePaymentAge),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shippingFeeStr     = getString(lookup, "DEFAULT_SHIPPING_FEE", defaultShippingFee)
		delayUnitStr       = cfg.ReconcileDelayUnit.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		staleAgeStr        = cfg.StalePaymentAge.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.PaymentReturnURL, "return-url", cfg.PaymentReturnURL, "Redirect-back URL passed to the gateway")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.InternalToken, "internal-token", cfg.InternalToken, "Shared token for webhook and internal endpoints")
	fs.StringVar(&shippingFeeStr, "shipping-fee", shippingFeeStr, "Fallback base shipping fee")
	fs.IntVar(&cfg.ReconcileMaxAttempts, "reconcile-attempts", cfg.ReconcileMaxAttempts, "Maximum reconciliation re-read attempts")
	fs.StringVar(&delayUnitStr, "reconcile-delay", delayUnitStr, "Delay unit between reconciliation attempts")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between stale payment sweeps")
	fs.IntVar(&cfg.SweepBatchSize, "sweep-batch", cfg.SweepBatchSize, "Maximum orders per sweep batch")
	fs.StringVar(&staleAgeStr, "stale-age", staleAgeStr, "Age after which a pending payment is swept")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sweep workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.DefaultShippingFee, err = decimal.NewFromString(shippingFeeStr); err != nil {
		return nil, fmt.Errorf("invalid shipping fee: %w", err)
	}
	if cfg.DefaultShippingFee.IsNegative() {
		return nil, fmt.Errorf("shipping fee must not be negative")
	}

	if cfg.ReconcileDelayUnit, err = time.ParseDuration(delayUnitStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile delay: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.StalePaymentAge, err = time.ParseDuration(staleAgeStr); err != nil {
		return nil, fmt.Errorf("invalid stale payment age: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.ReconcileMaxAttempts <= 0 {
		cfg.ReconcileMaxAttempts = defaultReconcileMaxAttempts
	}

	if cfg.ReconcileDelayUnit <= 0 {
		cfg.ReconcileDelayUnit = defaultReconcileDelayUnit
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}

	if cfg.StalePaymentAge <= 0 {
		cfg.StalePaymentAge = defaultStalePaymentAge
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	if cfg.PaymentReturnURL == "" {
		return nil, fmt.Errorf("payment return URL must be provided")
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

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
