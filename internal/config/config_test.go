package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8082" {
		t.Errorf("Port = %s, want 8082", cfg.Port)
	}
	if cfg.AMQPExchange != "nossosgastos" {
		t.Errorf("AMQPExchange = %s, want nossosgastos", cfg.AMQPExchange)
	}
	if cfg.SyncBatchSize != 25 {
		t.Errorf("SyncBatchSize = %d, want 25", cfg.SyncBatchSize)
	}
	if cfg.InstallmentReconcile {
		t.Error("InstallmentReconcile should default to false")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("INSTALLMENT_RECONCILE", "true")
	t.Setenv("RECURRING_INTERVAL", "2h")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if !cfg.InstallmentReconcile {
		t.Error("INSTALLMENT_RECONCILE=true not applied")
	}
	if cfg.RecurringInterval != 2*time.Hour {
		t.Errorf("RecurringInterval = %v, want 2h", cfg.RecurringInterval)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:              "8082",
			SQLiteDBPath:      t.TempDir() + "/test.db",
			SyncBatchSize:     25,
			RecurringInterval: time.Hour,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Port = "web" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }, "database path"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"amqp without queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name"},
		{"batch size", func(c *Config) { c.SyncBatchSize = 0 }, "sync batch size"},
		{"recurring interval", func(c *Config) { c.RecurringInterval = time.Second }, "recurring interval"},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, "cache TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateAccumulatesProblems(t *testing.T) {
	cfg := &Config{Port: "web", SQLiteDBPath: "", SyncBatchSize: 0, RecurringInterval: 0}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if strings.Count(err.Error(), "\n- ") < 3 {
		t.Errorf("expected multiple problems reported, got %q", err)
	}
}
