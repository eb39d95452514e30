package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	return Config{
		Port:            "8080",
		CORSOrigin:      "*",
		ShutdownTimeout: 5 * time.Second,
		DBPath:          "./data/test.db",
		JWTSecret:       testSecret,
		TokenTTL:        24 * time.Hour,
		RateLimitRPS:    5,
		RateLimitBurst:  10,
		LogLevel:        "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing database path",
			mutate:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			wantErr:     true,
			errorString: "JWT_SECRET is required",
		},
		{
			name:        "short JWT secret",
			mutate:      func(c *Config) { c.JWTSecret = "hunter2" },
			wantErr:     true,
			errorString: "JWT_SECRET too short",
		},
		{
			name:        "token TTL too short",
			mutate:      func(c *Config) { c.TokenTTL = time.Second },
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name:        "zero rate limit",
			mutate:      func(c *Config) { c.RateLimitRPS = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "zero burst",
			mutate:      func(c *Config) { c.RateLimitBurst = 0 },
			wantErr:     true,
			errorString: "invalid rate limit burst 0",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: `unknown log level "loud"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.JWTSecret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid port", "JWT_SECRET is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/ledger.db")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != "9090" || cfg.Addr() != ":9090" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.DBPath != "/tmp/ledger.db" {
		t.Errorf("db path: got %q", cfg.DBPath)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("token TTL: got %v", cfg.TokenTTL)
	}
	if cfg.RateLimitRPS != 0.5 || cfg.RateLimitBurst != 3 {
		t.Errorf("rate limit: got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should be valid: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "TOKEN_TTL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "LOG_LEVEL", "CORS_ORIGIN"} {
		t.Setenv(key, "")
	}
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("default port: got %q", cfg.Port)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("unparseable TTL should fall back to default, got %v", cfg.TokenTTL)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("default CORS origin: got %q", cfg.CORSOrigin)
	}
}
