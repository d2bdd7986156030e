package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "test-jwt-secret-that-is-long-enough!!"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.APIHost != "0.0.0.0" {
		t.Errorf("APIHost = %s, want 0.0.0.0", cfg.APIHost)
	}
	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %s, want 24h", cfg.JWTExpiry)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %s, want json", cfg.LogFormat)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 30s", cfg.ShutdownTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DATABASE_URL", "postgres://db.internal:5432/textloom")
	t.Setenv("API_PORT", "9090")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.DatabaseDSN != "postgres://db.internal:5432/textloom" {
		t.Errorf("DatabaseDSN = %s", cfg.DatabaseDSN)
	}
	if cfg.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", cfg.APIPort)
	}
	if cfg.JWTExpiry != time.Hour {
		t.Errorf("JWTExpiry = %s, want 1h", cfg.JWTExpiry)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("api_port: 3000\nlog_format: text\njwt_secret: " + testSecret + "\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("TEXTLOOM_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.APIPort != 3000 {
		t.Errorf("APIPort = %d, want 3000 from file", cfg.APIPort)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %s, want text from file", cfg.LogFormat)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("api_port: 3000\njwt_secret: " + testSecret + "\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("TEXTLOOM_CONFIG", path)
	t.Setenv("API_PORT", "4000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.APIPort != 4000 {
		t.Errorf("APIPort = %d, want env to win over file", cfg.APIPort)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{JWTSecret: testSecret, APIPort: 8080}, false},
		{"missing secret", Config{APIPort: 8080}, true},
		{"short secret", Config{JWTSecret: "short", APIPort: 8080}, true},
		{"bad port", Config{JWTSecret: testSecret, APIPort: 0}, true},
		{"port too high", Config{JWTSecret: testSecret, APIPort: 70000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
