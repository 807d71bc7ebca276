package scene

import (
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func animatedObject(tb testing.TB, name string, clock animation.Clock) game_object.GameObject {
	tb.Helper()
	obj := game_object.NewGameObject(game_object.WithName(name))
	channels, err := animation.NewChannels([]animation.ChannelData{{
		Path:       animation.PathTranslation,
		Timestamps: []float32{0, 1},
		Samples:    [][]float32{{0, 0, 0}, {0, 10, 0}},
		Target:     obj,
	}})
	if err != nil {
		tb.Fatal(err)
	}
	obj.AddAnimation(animation.NewClip(channels, animation.WithClock(clock), animation.WithAutoplay(true)))
	return obj
}

func TestSceneRegistry(t *testing.T) {
	s := NewScene("main", WithComputeWorkers(1))
	t.Cleanup(s.Release)

	a := game_object.NewGameObject(game_object.WithName("a"))
	b := game_object.NewGameObject(game_object.WithName("b"), game_object.WithID(10))

	if id := s.Add(a); id != 1 || a.ID() != 1 {
		t.Errorf("first id = %d, want 1", id)
	}
	if id := s.Add(b); id != 10 {
		t.Errorf("explicit id = %d, want 10", id)
	}
	c := game_object.NewGameObject(game_object.WithName("c"))
	if id := s.Add(c); id != 11 {
		t.Errorf("next id = %d, want 11", id)
	}
	if s.Count() != 3 || s.Get(10) != b {
		t.Fatalf("count=%d get(10)=%v", s.Count(), s.Get(10))
	}

	objs := s.Objects()
	if objs[0] != a || objs[1] != b || objs[2] != c {
		t.Error("Objects() is not sorted by ID")
	}

	if s.FindByName("b") != b || s.FindByName("zzz") != nil {
		t.Error("FindByName mismatch")
	}
	if target, ok := s.ResolveTarget("c"); !ok || target != animation.Target(c) {
		t.Error("ResolveTarget(c) failed")
	}
	if _, ok := s.ResolveTarget("missing"); ok {
		t.Error("ResolveTarget(missing) succeeded")
	}

	s.Remove(10)
	if s.Get(10) != nil || s.Count() != 2 {
		t.Error("Remove did not drop the object")
	}
	s.Clear()
	if s.Count() != 0 {
		t.Error("Clear left objects behind")
	}
}

func TestSceneFlags(t *testing.T) {
	s := NewScene("a", WithActive(true))
	t.Cleanup(s.Release)
	if !s.Active() || s.Name() != "a" {
		t.Fatal("options not applied")
	}
	s.SetActive(false)
	s.SetName("b")
	if s.Active() || s.Name() != "b" {
		t.Error("setters not applied")
	}
}

func TestSceneUpdateParallel(t *testing.T) {
	clock := &fixedClock{now: time.Unix(0, 0)}
	var objs []game_object.GameObject
	for i := range 50 {
		objs = append(objs, animatedObject(t, fmt.Sprintf("obj%d", i), clock))
	}
	still := game_object.NewGameObject(game_object.WithName("still"))
	disabled := animatedObject(t, "off", clock)
	disabled.SetEnabled(false)

	s := NewScene("crowd", WithComputeWorkers(4), WithObjects(append(objs, still, disabled)...))
	t.Cleanup(s.Release)

	clock.now = clock.now.Add(500 * time.Millisecond)
	if n := s.Update(); n != 50 {
		t.Errorf("writes = %d, want 50", n)
	}
	for _, obj := range objs {
		if obj.Position() != [3]float32{0, 5, 0} {
			t.Fatalf("%s position = %v, want [0 5 0]", obj.Name(), obj.Position())
		}
	}
	if disabled.Position() != [3]float32{} {
		t.Error("disabled object was animated")
	}
}

func TestSceneUpdateAfterRelease(t *testing.T) {
	clock := &fixedClock{now: time.Unix(0, 0)}
	obj := animatedObject(t, "solo", clock)
	s := NewScene("solo", WithObjects(obj))
	s.Release()
	s.Release()

	clock.now = clock.now.Add(250 * time.Millisecond)
	if n := s.Update(); n != 1 {
		t.Errorf("writes = %d, want 1", n)
	}
	if obj.Position() != [3]float32{0, 2.5, 0} {
		t.Errorf("position = %v", obj.Position())
	}
}

func BenchmarkSceneUpdate(b *testing.B) {
	clock := &fixedClock{now: time.Unix(0, 0)}
	s := NewScene("bench")
	defer s.Release()
	for i := range 256 {
		s.Add(animatedObject(b, fmt.Sprintf("o%d", i), clock))
	}
	for b.Loop() {
		s.Update()
	}
}
