package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteRefreshMetric records a single capability refresh.
//
// This is the primary method for recording refresh telemetry.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: SANE device identifier (e.g., "plustek:libusb:001:003")
//   - source: Where the model came from ("scanimage" or "cache")
//   - durationMS: How long the refresh took in milliseconds
//   - featureCount: Number of capabilities in the resulting model
//
// Example:
//
//	client.WriteRefreshMetric("plustek:libusb:001:003", "scanimage", 412.5, 9)
func (c *Client) WriteRefreshMetric(deviceID string, source string, durationMS float64, featureCount int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"capability_refresh",
		map[string]string{
			"device_id": deviceID,
			"source":    source,
		},
		map[string]interface{}{
			"duration_ms":   durationMS,
			"feature_count": featureCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
