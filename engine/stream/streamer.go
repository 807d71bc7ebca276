// Package stream publishes scene poses over MQTT and accepts playback commands
// from a control topic.
package stream

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a frame in time.
var ErrPublishTimeout = errors.New("stream: publish timed out")

const (
	// DefaultTopic receives pose frames when no topic is configured.
	DefaultTopic = "oxy/anim/pose"

	// DefaultPublishTimeout bounds how long Publish waits for the broker.
	DefaultPublishTimeout = 2 * time.Second
)

type streamer struct {
	mu *sync.Mutex

	client  mqtt.Client
	topic   string
	qos     byte
	retain  bool
	timeout time.Duration

	sequence  uint32
	published atomic.Uint64
	failed    atomic.Uint64
}

// Streamer publishes PoseFrames to an MQTT topic. Publish failures are logged
// and counted but never stop the caller. Thread-safe for concurrent access.
type Streamer interface {
	// Topic returns the topic frames are published to.
	Topic() string

	// Publish encodes frame and publishes it, waiting for the broker up to the
	// configured timeout.
	//
	// Parameters:
	//   - frame: the frame to send
	//
	// Returns:
	//   - error: ErrPublishTimeout, the client's error, or an encoding error
	Publish(frame PoseFrame) error

	// PublishScene captures every object of s into the next frame and publishes it.
	//
	// Parameters:
	//   - s: the scene to snapshot
	//
	// Returns:
	//   - error: see Publish
	PublishScene(s scene.Scene) error

	// Published returns the number of frames the broker acknowledged.
	Published() uint64

	// Failed returns the number of frames that could not be published.
	Failed() uint64
}

var _ Streamer = &streamer{}

// NewStreamer creates a Streamer over an already configured client. The client
// is not connected or disconnected by the streamer.
//
// Parameters:
//   - client: the MQTT client
//   - options: functional options to configure the streamer
//
// Returns:
//   - Streamer: the new streamer
func NewStreamer(client mqtt.Client, options ...StreamerBuilderOption) Streamer {
	s := &streamer{
		mu:      &sync.Mutex{},
		client:  client,
		topic:   DefaultTopic,
		timeout: DefaultPublishTimeout,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *streamer) Topic() string {
	return s.topic
}

func (s *streamer) Publish(frame PoseFrame) error {
	err := s.publish(frame)
	if err != nil {
		s.failed.Add(1)
		common.Logger().Warn("stream: publish failed", "topic", s.topic, "seq", frame.Sequence, "err", err)
		return err
	}
	s.published.Add(1)
	return nil
}

func (s *streamer) publish(frame PoseFrame) error {
	b, err := frame.MarshalBinary()
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, s.qos, s.retain, b)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("%w after %v", ErrPublishTimeout, s.timeout)
	}
	return token.Error()
}

func (s *streamer) PublishScene(sc scene.Scene) error {
	s.mu.Lock()
	s.sequence++
	seq := s.sequence
	s.mu.Unlock()
	return s.Publish(Capture(seq, sc.Objects()))
}

func (s *streamer) Published() uint64 {
	return s.published.Load()
}

func (s *streamer) Failed() uint64 {
	return s.failed.Load()
}
