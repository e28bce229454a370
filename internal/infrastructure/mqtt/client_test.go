package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ad3m3r5/scanservjs/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "scanservd-test",
			TLS:      false,
		},
		Auth: config.MQTTAuthConfig{
			Username: "",
			Password: "",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// =============================================================================
// Topic Tests
// =============================================================================

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"device capabilities", topics.DeviceCapabilities(), "scanserv/device/capabilities"},
		{"device refreshed", topics.DeviceRefreshed(), "scanserv/device/refreshed"},
		{"system status", topics.SystemStatus(), "scanserv/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("topic = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

// =============================================================================
// Options Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}

	broker := opts.Servers[0].String()
	if broker != "tcp://127.0.0.1:1883" {
		t.Errorf("broker URL = %q, want tcp://127.0.0.1:1883", broker)
	}

	if opts.ClientID != "scanservd-test" {
		t.Errorf("ClientID = %q, want scanservd-test", opts.ClientID)
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	opts := buildClientOptions(cfg)

	broker := opts.Servers[0].String()
	if !strings.HasPrefix(broker, "ssl://") {
		t.Errorf("broker URL = %q, want ssl:// scheme", broker)
	}

	if opts.TLSConfig == nil {
		t.Error("expected TLS config to be set")
	}
}

func TestConfigureLWT(t *testing.T) {
	cfg := testConfig()
	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)

	if !opts.WillEnabled {
		t.Fatal("expected will to be enabled")
	}

	if opts.WillTopic != "scanserv/system/status" {
		t.Errorf("WillTopic = %q, want scanserv/system/status", opts.WillTopic)
	}

	if !opts.WillRetained {
		t.Error("expected will to be retained")
	}

	var payload map[string]string
	if err := json.Unmarshal(opts.WillPayload, &payload); err != nil {
		t.Fatalf("will payload is not valid JSON: %v", err)
	}
	if payload["status"] != "offline" {
		t.Errorf("will status = %q, want offline", payload["status"])
	}
	if payload["client_id"] != "scanservd-test" {
		t.Errorf("will client_id = %q, want scanservd-test", payload["client_id"])
	}
}

// =============================================================================
// Payload Tests
// =============================================================================

func TestStatusPayloads(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantStatus string
	}{
		{"online", buildOnlinePayload("scanservd-01"), "online"},
		{"offline", buildOfflinePayload("scanservd-01"), "offline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed map[string]string
			if err := json.Unmarshal([]byte(tt.payload), &parsed); err != nil {
				t.Fatalf("payload is not valid JSON: %v", err)
			}
			if parsed["status"] != tt.wantStatus {
				t.Errorf("status = %q, want %q", parsed["status"], tt.wantStatus)
			}
			if parsed["client_id"] != "scanservd-01" {
				t.Errorf("client_id = %q, want scanservd-01", parsed["client_id"])
			}
			if parsed["timestamp"] == "" {
				t.Error("expected timestamp to be set")
			}
		})
	}
}

// =============================================================================
// Publish Validation Tests
// =============================================================================

func TestPublish_Validation(t *testing.T) {
	client := &Client{cfg: testConfig()}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "scanserv/device/capabilities", []byte("x"), 3, ErrInvalidQoS},
		{"not connected", "scanserv/device/capabilities", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublish_PayloadTooLarge(t *testing.T) {
	client := &Client{cfg: testConfig()}

	payload := make([]byte, maxPayloadSize+1)
	err := client.Publish("scanserv/device/capabilities", payload, 1, false)
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}
