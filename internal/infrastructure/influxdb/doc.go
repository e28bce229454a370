// Package influxdb provides InfluxDB connectivity for scanservd.
//
// It wraps the official influxdb-client-go v2 library with scanservd-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Capability refresh timing (how long scanimage -A takes)
//   - Refresh source tracking (fresh probe vs cache hit)
//   - Capability model size over time
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "scanserv",
//	    Bucket: "metrics",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record a refresh
//	client.WriteRefreshMetric("plustek:libusb:001:003", "scanimage", 412.5, 9)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead when refreshes are frequent.
package influxdb
