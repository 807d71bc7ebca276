package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func animatedScene(t *testing.T, name string, clock animation.Clock, active bool) (scene.Scene, game_object.GameObject) {
	t.Helper()
	obj := game_object.NewGameObject(game_object.WithName(name))
	channels, err := animation.NewChannels([]animation.ChannelData{{
		Path:       animation.PathTranslation,
		Timestamps: []float32{0, 1},
		Samples:    [][]float32{{0, 0, 0}, {1, 0, 0}},
		Target:     obj,
	}})
	if err != nil {
		t.Fatal(err)
	}
	obj.AddAnimation(animation.NewClip(channels, animation.WithClock(clock), animation.WithAutoplay(true), animation.WithLoop(true)))
	s := scene.NewScene(name, scene.WithActive(active), scene.WithObjects(obj), scene.WithComputeWorkers(1))
	t.Cleanup(s.Release)
	return s, obj
}

func TestTickUpdatesActiveScenesInOrder(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0)}
	front, frontObj := animatedScene(t, "front", clock, true)
	back, _ := animatedScene(t, "back", clock, true)
	idle, idleObj := animatedScene(t, "idle", clock, false)

	e := NewEngine(WithScene(2, front), WithScene(1, back), WithScene(3, idle))

	var order []string
	e.SetTickCallback(func(float32) { order = append(order, "tick") })
	e.SetPostTickCallback(func(_ float32, writes int) {
		order = append(order, "post")
		if writes != 2 {
			t.Errorf("writes = %d, want 2", writes)
		}
	})

	clock.now = clock.now.Add(250 * time.Millisecond)
	if n := e.Tick(0.25); n != 2 {
		t.Errorf("Tick wrote %d samples, want 2", n)
	}
	if len(order) != 2 || order[0] != "tick" || order[1] != "post" {
		t.Errorf("callback order = %v", order)
	}
	if frontObj.Position()[0] != 0.25 {
		t.Errorf("front position = %v", frontObj.Position())
	}
	if idleObj.Position()[0] != 0 {
		t.Error("inactive scene was updated")
	}
	if e.Ticks() != 1 {
		t.Errorf("Ticks = %d", e.Ticks())
	}
}

func TestSceneRegistry(t *testing.T) {
	a := scene.NewScene("a")
	t.Cleanup(a.Release)
	e := NewEngine()
	e.AddScene(5, a)
	if e.Scene(5) != a || len(e.Scenes()) != 1 {
		t.Fatal("AddScene did not register")
	}
	cp := e.Scenes()
	delete(cp, 5)
	if e.Scene(5) == nil {
		t.Error("Scenes returned the live map")
	}
	e.RemoveScene(5)
	if e.Scene(5) != nil {
		t.Error("RemoveScene left the scene")
	}
}

func TestTickRate(t *testing.T) {
	e := NewEngine(WithTickRate(0))
	if e.TickRate() != time.Second/60 {
		t.Errorf("default rate = %v", e.TickRate())
	}
	e.SetTickRate(200)
	if e.TickRate() != 5*time.Millisecond {
		t.Errorf("rate = %v, want 5ms", e.TickRate())
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	e := NewEngine(WithTickRate(1000), WithProfiling(true), WithProfilerInterval(time.Millisecond))
	ticked := make(chan struct{}, 1)
	e.SetTickCallback(func(float32) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("engine never ticked")
	}
	e.SetTickRate(500)
	e.Quit()
	e.Quit()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v after Quit", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	e := NewEngine(WithTickRate(500))
	if err := e.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run = %v, want DeadlineExceeded", err)
	}
	if e.Ticks() == 0 {
		t.Error("no ticks ran before the deadline")
	}
}
