// Package mqtt provides MQTT client connectivity for scanservd.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// scanservd is a publisher only. After each capability refresh it
// publishes the device model (retained) and a refresh event, so home
// automation systems can consume scanner capabilities without polling
// the HTTP API.
//
//	scanservd → MQTT Broker → subscribers (Home Assistant, dashboards)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Publish the current capability model (retained)
//	topic := mqtt.Topics{}.DeviceCapabilities()
//	client.PublishRetained(topic, deviceJSON)
package mqtt
