package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
scanner:
  binary: "/usr/bin/scanimage"
  device: "plustek:libusb:001:003"
  timeout: 20
cache:
  path: "/tmp/device.json"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scanner.Binary != "/usr/bin/scanimage" {
		t.Errorf("Scanner.Binary = %q, want %q", cfg.Scanner.Binary, "/usr/bin/scanimage")
	}

	if cfg.Scanner.Device != "plustek:libusb:001:003" {
		t.Errorf("Scanner.Device = %q, want %q", cfg.Scanner.Device, "plustek:libusb:001:003")
	}

	if cfg.Cache.Path != "/tmp/device.json" {
		t.Errorf("Cache.Path = %q, want %q", cfg.Cache.Path, "/tmp/device.json")
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
scanner:
  binary: ""
cache:
  path: "/tmp/device.json"
api:
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for empty scanner.binary, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Scanner:  ScannerConfig{Binary: "scanimage", Timeout: 30},
			Cache:    CacheConfig{Path: "/data/device.json"},
			Database: DatabaseConfig{Path: "/data/scanservd.db"},
			API:      APIConfig{Port: 8080},
			MQTT:     MQTTConfig{QoS: 1, Broker: MQTTBrokerConfig{Host: "localhost"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing scanner binary",
			mutate:  func(c *Config) { c.Scanner.Binary = "" },
			wantErr: true,
		},
		{
			name:    "negative scanner timeout",
			mutate:  func(c *Config) { c.Scanner.Timeout = -1 },
			wantErr: true,
		},
		{
			name:    "missing cache path",
			mutate:  func(c *Config) { c.Cache.Path = "" },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid port low",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port high",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "TLS enabled without certificates",
			mutate:  func(c *Config) { c.API.TLS.Enabled = true },
			wantErr: true,
		},
		{
			name:    "mqtt enabled without broker host",
			mutate:  func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Broker.Host = "" },
			wantErr: true,
		},
		{
			name:    "influxdb enabled without URL",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		Scanner: ScannerConfig{Timeout: 20},
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetScannerTimeout().Seconds(); got != 20 {
		t.Errorf("GetScannerTimeout() = %v, want 20", got)
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("SCANSERV_SCANNER_BINARY", "/opt/sane/bin/scanimage")
	t.Setenv("SCANSERV_SCANNER_DEVICE", "net:localhost:test:0")
	t.Setenv("SCANSERV_CACHE_PATH", "/custom/device.json")
	t.Setenv("SCANSERV_DATABASE_PATH", "/custom/path.db")
	t.Setenv("SCANSERV_API_HOST", "192.168.1.1")
	t.Setenv("SCANSERV_API_PORT", "9090")
	t.Setenv("SCANSERV_MQTT_HOST", "mqtt.example.com")
	t.Setenv("SCANSERV_MQTT_USERNAME", "testuser")
	t.Setenv("SCANSERV_MQTT_PASSWORD", "testpass")
	t.Setenv("SCANSERV_INFLUXDB_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	if cfg.Scanner.Binary != "/opt/sane/bin/scanimage" {
		t.Errorf("Scanner.Binary = %q, want %q", cfg.Scanner.Binary, "/opt/sane/bin/scanimage")
	}

	if cfg.Scanner.Device != "net:localhost:test:0" {
		t.Errorf("Scanner.Device = %q, want %q", cfg.Scanner.Device, "net:localhost:test:0")
	}

	if cfg.Cache.Path != "/custom/device.json" {
		t.Errorf("Cache.Path = %q, want %q", cfg.Cache.Path, "/custom/device.json")
	}

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}

	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}

	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Scanner.Binary == "" {
		t.Error("defaultConfig should have non-empty Scanner.Binary")
	}

	if cfg.Cache.Path == "" {
		t.Error("defaultConfig should have non-empty Cache.Path")
	}

	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("defaultConfig API.Port = %d, want 8080", cfg.API.Port)
	}
}
