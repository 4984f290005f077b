package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func envMap(pairs map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := pairs[key]
		return v, ok
	}
}

func requiredEnv() map[string]string {
	return map[string]string{
		"DATABASE_URI":            "postgres://localhost/checkout",
		"PAYMENT_GATEWAY_ADDRESS": "https://gateway.example",
		"PAYMENT_RETURN_URL":      "https://shop.example/payment/return",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(nil, envMap(requiredEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != ":8080" {
		t.Errorf("run address = %q", cfg.RunAddress)
	}
	if !cfg.DefaultShippingFee.Equal(decimal.NewFromInt(50)) {
		t.Errorf("shipping fee = %s", cfg.DefaultShippingFee)
	}
	if cfg.ReconcileMaxAttempts != 5 || cfg.ReconcileDelayUnit != time.Second {
		t.Errorf("reconcile settings = %d %s", cfg.ReconcileMaxAttempts, cfg.ReconcileDelayUnit)
	}
	if cfg.SweepInterval != time.Minute || cfg.SweepBatchSize != 32 {
		t.Errorf("sweep settings = %s %d", cfg.SweepInterval, cfg.SweepBatchSize)
	}
	if cfg.StalePaymentAge != 15*time.Minute || cfg.WorkerPoolSize != 4 {
		t.Errorf("sweeper settings = %s %d", cfg.StalePaymentAge, cfg.WorkerPoolSize)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %s", cfg.ShutdownTimeout)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	cases := []string{"DATABASE_URI", "PAYMENT_GATEWAY_ADDRESS", "PAYMENT_RETURN_URL"}
	for _, key := range cases {
		env := requiredEnv()
		delete(env, key)
		if _, err := load(nil, envMap(env)); err == nil {
			t.Errorf("missing %s must fail", key)
		}
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	env := requiredEnv()
	env["RUN_ADDRESS"] = ":9090"
	env["DEFAULT_SHIPPING_FEE"] = "58.50"
	env["RECONCILE_MAX_ATTEMPTS"] = "3"
	env["RECONCILE_DELAY_UNIT"] = "250ms"
	env["SWEEP_INTERVAL"] = "30s"
	env["STALE_PAYMENT_AGE"] = "5m"
	env["INTERNAL_TOKEN"] = "hunter2"

	cfg, err := load(nil, envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != ":9090" {
		t.Errorf("run address = %q", cfg.RunAddress)
	}
	if !cfg.DefaultShippingFee.Equal(decimal.RequireFromString("58.50")) {
		t.Errorf("shipping fee = %s", cfg.DefaultShippingFee)
	}
	if cfg.ReconcileMaxAttempts != 3 || cfg.ReconcileDelayUnit != 250*time.Millisecond {
		t.Errorf("reconcile settings = %d %s", cfg.ReconcileMaxAttempts, cfg.ReconcileDelayUnit)
	}
	if cfg.SweepInterval != 30*time.Second || cfg.StalePaymentAge != 5*time.Minute {
		t.Errorf("sweep settings = %s %s", cfg.SweepInterval, cfg.StalePaymentAge)
	}
	if cfg.InternalToken != "hunter2" {
		t.Errorf("internal token = %q", cfg.InternalToken)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	env := requiredEnv()
	env["RUN_ADDRESS"] = ":9090"
	env["DEFAULT_SHIPPING_FEE"] = "40"

	args := []string{
		"-a", ":7070",
		"-d", "postgres://flag/checkout",
		"-shipping-fee", "65",
		"-sweep-interval", "45s",
	}
	cfg, err := load(args, envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RunAddress != ":7070" {
		t.Errorf("run address = %q", cfg.RunAddress)
	}
	if cfg.DatabaseURI != "postgres://flag/checkout" {
		t.Errorf("database URI = %q", cfg.DatabaseURI)
	}
	if !cfg.DefaultShippingFee.Equal(decimal.NewFromInt(65)) {
		t.Errorf("shipping fee = %s", cfg.DefaultShippingFee)
	}
	if cfg.SweepInterval != 45*time.Second {
		t.Errorf("sweep interval = %s", cfg.SweepInterval)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	env := requiredEnv()
	env["DEFAULT_SHIPPING_FEE"] = "free"
	if _, err := load(nil, envMap(env)); err == nil {
		t.Error("garbage shipping fee must fail")
	}

	env = requiredEnv()
	env["DEFAULT_SHIPPING_FEE"] = "-10"
	if _, err := load(nil, envMap(env)); err == nil {
		t.Error("negative shipping fee must fail")
	}

	if _, err := load([]string{"-reconcile-delay", "soon"}, envMap(requiredEnv())); err == nil {
		t.Error("garbage delay must fail")
	}
}

func TestLoadNonPositiveValuesFallBack(t *testing.T) {
	env := requiredEnv()
	env["RECONCILE_MAX_ATTEMPTS"] = "0"
	env["SWEEP_BATCH_SIZE"] = "-5"
	env["WORKER_POOL_SIZE"] = "0"

	cfg, err := load(nil, envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ReconcileMaxAttempts != 5 || cfg.SweepBatchSize != 32 || cfg.WorkerPoolSize != 4 {
		t.Errorf("fallbacks not applied: %d %d %d", cfg.ReconcileMaxAttempts, cfg.SweepBatchSize, cfg.WorkerPoolSize)
	}
}

func TestLoadJWTSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("file-secret"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	env := requiredEnv()
	env["JWT_SECRET"] = "env-secret"
	env["JWT_SECRET_FILE"] = path

	cfg, err := load(nil, envMap(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Errorf("jwt secret = %q, file must win", cfg.JWTSecret)
	}

	env["JWT_SECRET_FILE"] = filepath.Join(t.TempDir(), "missing")
	if _, err := load(nil, envMap(env)); err == nil {
		t.Error("unreadable secret file must fail")
	}
}
