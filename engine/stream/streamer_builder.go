package stream

import "time"

// StreamerBuilderOption is a functional option for configuring a Streamer.
type StreamerBuilderOption func(s *streamer)

// WithTopic sets the topic frames are published to.
//
// Parameters:
//   - topic: the MQTT topic
//
// Returns:
//   - StreamerBuilderOption: option function to apply
func WithTopic(topic string) StreamerBuilderOption {
	return func(s *streamer) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// WithQoS sets the MQTT quality of service, clamped to 0..2.
//
// Parameters:
//   - qos: 0, 1 or 2
//
// Returns:
//   - StreamerBuilderOption: option function to apply
func WithQoS(qos byte) StreamerBuilderOption {
	return func(s *streamer) {
		s.qos = min(qos, 2)
	}
}

// WithRetain marks published frames as retained so late subscribers get the last pose.
//
// Parameters:
//   - retain: whether the broker keeps the last frame
//
// Returns:
//   - StreamerBuilderOption: option function to apply
func WithRetain(retain bool) StreamerBuilderOption {
	return func(s *streamer) {
		s.retain = retain
	}
}

// WithPublishTimeout bounds how long Publish waits for the broker.
//
// Parameters:
//   - d: the timeout; non-positive values keep the default
//
// Returns:
//   - StreamerBuilderOption: option function to apply
func WithPublishTimeout(d time.Duration) StreamerBuilderOption {
	return func(s *streamer) {
		if d > 0 {
			s.timeout = d
		}
	}
}
