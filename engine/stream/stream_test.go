package stream

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken completes immediately unless hang is set.
type fakeToken struct {
	err  error
	hang bool
}

func (t *fakeToken) Wait() bool { return !t.hang }

func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.hang }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.hang {
		close(ch)
	}
	return ch
}

func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload []byte
}

// fakeClient records publishes and keeps the subscription handler. Methods the
// tests do not use panic through the nil embedded interface.
type fakeClient struct {
	mqtt.Client

	mu      sync.Mutex
	sent    []published
	token   *fakeToken
	handler mqtt.MessageHandler
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, published{topic, qos, retained, payload.([]byte)})
	if c.token != nil {
		return c.token
	}
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.handler = callback
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.handler = nil
	return &fakeToken{}
}

type fakeMessage struct {
	mqtt.Message
	payload []byte
}

func (m fakeMessage) Payload() []byte { return m.payload }
func (m fakeMessage) Topic() string   { return "ctl" }

func TestPoseFrameRoundTrip(t *testing.T) {
	in := PoseFrame{Sequence: 7, Objects: []ObjectPose{
		{ID: 1, Position: [3]float32{1, 2, 3}, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}},
		{ID: 42, Rotation: [4]float32{0, 1, 0, 0}, Scale: [3]float32{2, 2, 2}, Weights: []float32{0.25, 0.75}},
	}}
	b, err := in.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if want := frameHeaderSize + 2*poseFixedSize + 8; len(b) != want {
		t.Errorf("encoded %d bytes, want %d", len(b), want)
	}

	var out PoseFrame
	if err := out.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if out.Sequence != 7 || len(out.Objects) != 2 {
		t.Fatalf("decoded %+v", out)
	}
	if out.Objects[0].Position != in.Objects[0].Position || out.Objects[1].ID != 42 {
		t.Errorf("decoded %+v", out.Objects)
	}
	if !slices.Equal(out.Objects[1].Weights, in.Objects[1].Weights) || out.Objects[0].Weights != nil {
		t.Errorf("weights = %v / %v", out.Objects[0].Weights, out.Objects[1].Weights)
	}

	for _, cut := range []int{0, 5, frameHeaderSize + 10, len(b) - 1} {
		if err := new(PoseFrame).UnmarshalBinary(b[:cut]); !errors.Is(err, ErrShortFrame) {
			t.Errorf("UnmarshalBinary(%d bytes) = %v, want ErrShortFrame", cut, err)
		}
	}
}

func TestCapture(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithID(3), game_object.WithPosition(1, 0, 0), game_object.WithMorphTargets(2))
	f := Capture(9, []game_object.GameObject{obj})
	if f.Sequence != 9 || len(f.Objects) != 1 {
		t.Fatalf("frame = %+v", f)
	}
	p := f.Objects[0]
	if p.ID != 3 || p.Position != [3]float32{1, 0, 0} || p.Rotation != [4]float32{0, 0, 0, 1} || len(p.Weights) != 2 {
		t.Errorf("pose = %+v", p)
	}
}

func TestStreamerPublish(t *testing.T) {
	client := &fakeClient{}
	s := NewStreamer(client, WithTopic("poses"), WithQoS(7), WithRetain(true))
	sc := scene.NewScene("s", withObjects("a", "b"))
	t.Cleanup(sc.Release)

	for range 2 {
		if err := s.PublishScene(sc); err != nil {
			t.Fatal(err)
		}
	}
	if s.Published() != 2 || s.Failed() != 0 || s.Topic() != "poses" {
		t.Errorf("published=%d failed=%d topic=%s", s.Published(), s.Failed(), s.Topic())
	}
	last := client.sent[1]
	if last.topic != "poses" || last.qos != 2 || !last.retain {
		t.Errorf("publish args = %+v", last)
	}
	var f PoseFrame
	if err := f.UnmarshalBinary(last.payload); err != nil {
		t.Fatal(err)
	}
	if f.Sequence != 2 || len(f.Objects) != 2 {
		t.Errorf("frame = %+v", f)
	}
}

func TestStreamerPublishFailures(t *testing.T) {
	tests := []struct {
		name  string
		token *fakeToken
		want  error
	}{
		{"timeout", &fakeToken{hang: true}, ErrPublishTimeout},
		{"broker error", &fakeToken{err: mqtt.ErrNotConnected}, mqtt.ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStreamer(&fakeClient{token: tt.token}, WithPublishTimeout(time.Millisecond))
			if err := s.Publish(PoseFrame{}); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if s.Failed() != 1 || s.Published() != 0 {
				t.Errorf("failed=%d published=%d", s.Failed(), s.Published())
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"object": "cube", "clip": "spin", "playing": true, "time": 0.5}`))
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Object != "cube" || cmd.Clip != "spin" || cmd.Playing == nil || !*cmd.Playing || *cmd.Time != 0.5 || cmd.Loop != nil {
		t.Errorf("cmd = %+v", cmd)
	}

	for _, bad := range []string{`{"clip": "spin"}`, `{"object": "a", "speed": 2}`, `{`} {
		if _, err := ParseCommand([]byte(bad)); err == nil {
			t.Errorf("ParseCommand(%s) succeeded", bad)
		}
	}
}

func TestRemoteAppliesQueuedCommands(t *testing.T) {
	clock := animation.ClockFunc(func() time.Time { return time.Unix(0, 0) })
	obj := game_object.NewGameObject(game_object.WithName("cube"))
	channels, err := animation.NewChannels([]animation.ChannelData{{
		Path:       animation.PathTranslation,
		Timestamps: []float32{0, 2},
		Samples:    [][]float32{{0, 0, 0}, {2, 0, 0}},
		Target:     obj,
	}})
	if err != nil {
		t.Fatal(err)
	}
	spin := animation.NewClip(channels, animation.WithName("spin"), animation.WithClock(clock))
	idle := animation.NewClip(channels, animation.WithName("idle"), animation.WithClock(clock))
	obj.AddAnimation(spin)
	obj.AddAnimation(idle)
	sc := scene.NewScene("s", scene.WithObjects(obj))
	t.Cleanup(sc.Release)

	client := &fakeClient{}
	r := NewRemote(client, "ctl")
	if err := r.Subscribe(); err != nil {
		t.Fatal(err)
	}
	client.handler(client, fakeMessage{payload: []byte("object: cube\nclip: spin\nplaying: true\ntime: 1\n")})
	client.handler(client, fakeMessage{payload: []byte("not: [valid")})
	r.Enqueue(Command{Object: "ghost", Playing: animation.Bool(true)})

	if n := r.Apply(sc); n != 1 {
		t.Errorf("changed %d clips, want 1", n)
	}
	if !spin.Playing() || spin.Time() != 1 || idle.Playing() {
		t.Errorf("spin playing=%v time=%v, idle playing=%v", spin.Playing(), spin.Time(), idle.Playing())
	}

	r.Enqueue(Command{Object: "cube", Loop: animation.Bool(true)})
	if n := r.Apply(sc); n != 2 || !spin.Loop() || !idle.Loop() {
		t.Errorf("changed %d clips, loop=%v/%v", n, spin.Loop(), idle.Loop())
	}
	if n := r.Apply(sc); n != 0 {
		t.Errorf("empty queue changed %d clips", n)
	}

	if err := r.Unsubscribe(); err != nil || client.handler != nil {
		t.Errorf("Unsubscribe = %v", err)
	}
}

func TestRemoteDropsWhenFull(t *testing.T) {
	r := NewRemote(&fakeClient{}, "ctl")
	for range remoteQueueSize + 5 {
		r.Enqueue(Command{Object: "x"})
	}
	sc := scene.NewScene("empty")
	t.Cleanup(sc.Release)
	if n := r.Apply(sc); n != 0 {
		t.Errorf("changed %d clips", n)
	}
}

// withObjects adds plain named objects to a scene.
func withObjects(names ...string) scene.SceneBuilderOption {
	objs := make([]game_object.GameObject, len(names))
	for i, name := range names {
		objs[i] = game_object.NewGameObject(game_object.WithName(name))
	}
	return scene.WithObjects(objs...)
}
