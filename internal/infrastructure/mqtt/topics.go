package mqtt

import "fmt"

// Topic prefixes for the scanserv MQTT hierarchy.
//
// All topics use the flat scheme: scanserv/{category}/{name}
const (
	// TopicPrefix is the base for all scanserv topics.
	TopicPrefix = "scanserv"

	// TopicPrefixDevice is the base for device topics.
	TopicPrefixDevice = "scanserv/device"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "scanserv/system"
)

// Topics provides builders for scanserv MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	capTopic := topics.DeviceCapabilities()
//	// Returns: "scanserv/device/capabilities"
type Topics struct{}

// DeviceCapabilities returns the topic carrying the current device
// capability model. Published retained so new subscribers immediately
// receive the last known model.
//
// Example: scanserv/device/capabilities
func (Topics) DeviceCapabilities() string {
	return fmt.Sprintf("%s/capabilities", TopicPrefixDevice)
}

// DeviceRefreshed returns the topic for refresh events. Each successful
// refresh publishes a small event with the source and timing.
//
// Example: scanserv/device/refreshed
func (Topics) DeviceRefreshed() string {
	return fmt.Sprintf("%s/refreshed", TopicPrefixDevice)
}

// SystemStatus returns the system status topic.
//
// Example: scanserv/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
