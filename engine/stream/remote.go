package stream

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gopkg.in/yaml.v2"
)

// Command changes the playback state of clips on one object. Payloads are YAML
// or JSON, e.g. {"object": "cube", "clip": "spin", "playing": true}.
// Nil fields are left untouched; an empty Clip addresses every clip of the object.
type Command struct {
	Object   string   `yaml:"object"`
	Clip     string   `yaml:"clip"`
	Enabled  *bool    `yaml:"enabled"`
	Loop     *bool    `yaml:"loop"`
	Autoplay *bool    `yaml:"autoplay"`
	Playing  *bool    `yaml:"playing"`
	Time     *float32 `yaml:"time"`
}

// ParseCommand decodes a control payload.
//
// Parameters:
//   - payload: YAML or JSON bytes
//
// Returns:
//   - Command: the decoded command
//   - error: error if the payload is malformed or names no object
func ParseCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := yaml.UnmarshalStrict(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("stream: bad command: %w", err)
	}
	if cmd.Object == "" {
		return Command{}, fmt.Errorf("stream: command names no object")
	}
	return cmd, nil
}

func (c Command) config() animation.ClipConfig {
	return animation.ClipConfig{
		Enabled:  c.Enabled,
		Loop:     c.Loop,
		Autoplay: c.Autoplay,
		Playing:  c.Playing,
		Time:     c.Time,
	}
}

// remoteQueueSize bounds commands waiting for the next Apply.
const remoteQueueSize = 64

type remote struct {
	client mqtt.Client
	topic  string
	queue  chan Command
}

// Remote receives Commands on an MQTT topic and applies them to a scene.
// Messages arrive on the client's goroutines and are queued; Apply must be
// called from the goroutine that updates the scene, since clips are not safe
// for concurrent use.
type Remote interface {
	// Subscribe starts receiving commands.
	//
	// Returns:
	//   - error: the subscription error, if any
	Subscribe() error

	// Unsubscribe stops receiving commands.
	//
	// Returns:
	//   - error: the unsubscribe error, if any
	Unsubscribe() error

	// Enqueue queues cmd for the next Apply. Commands are dropped with a warning
	// while the queue is full.
	//
	// Parameters:
	//   - cmd: the command
	Enqueue(cmd Command)

	// Apply drains the queue into s.
	//
	// Parameters:
	//   - s: the scene whose objects are addressed by name
	//
	// Returns:
	//   - int: the number of clips changed
	Apply(s scene.Scene) int
}

var _ Remote = &remote{}

// NewRemote creates a Remote listening on topic.
//
// Parameters:
//   - client: the MQTT client
//   - topic: the control topic
//
// Returns:
//   - Remote: the new remote
func NewRemote(client mqtt.Client, topic string) Remote {
	return &remote{
		client: client,
		topic:  topic,
		queue:  make(chan Command, remoteQueueSize),
	}
}

func (r *remote) Subscribe() error {
	token := r.client.Subscribe(r.topic, 1, r.handleMessage)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	common.Logger().Info("stream: listening for commands", "topic", r.topic)
	return nil
}

func (r *remote) Unsubscribe() error {
	token := r.client.Unsubscribe(r.topic)
	token.Wait()
	return token.Error()
}

func (r *remote) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	cmd, err := ParseCommand(msg.Payload())
	if err != nil {
		common.Logger().Warn("stream: ignoring command", "topic", msg.Topic(), "err", err)
		return
	}
	r.Enqueue(cmd)
}

func (r *remote) Enqueue(cmd Command) {
	select {
	case r.queue <- cmd:
	default:
		common.Logger().Warn("stream: command queue full, dropping", "object", cmd.Object, "clip", cmd.Clip)
	}
}

func (r *remote) Apply(s scene.Scene) int {
	changed := 0
	for {
		select {
		case cmd := <-r.queue:
			changed += applyCommand(s, cmd)
		default:
			return changed
		}
	}
}

func applyCommand(s scene.Scene, cmd Command) int {
	obj := s.FindByName(cmd.Object)
	if obj == nil {
		common.Logger().Warn("stream: command for unknown object", "object", cmd.Object)
		return 0
	}
	n := 0
	cfg := cmd.config()
	for _, clip := range obj.Animations() {
		if cmd.Clip != "" && clip.Name() != cmd.Clip {
			continue
		}
		clip.Set(cfg)
		n++
	}
	if n == 0 {
		common.Logger().Warn("stream: command matched no clip", "object", cmd.Object, "clip", cmd.Clip)
	}
	return n
}
