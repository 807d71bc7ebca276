package animation

import (
	"testing"
	"time"
)

const tolerance = 1e-5

// manualClock only moves when told to.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1_700_000_000, 0)}
}

func (m *manualClock) Now() time.Time {
	return m.now
}

func (m *manualClock) Advance(seconds float64) {
	m.now = m.now.Add(time.Duration(seconds * float64(time.Second)))
}

// recordingTarget keeps every value written to it.
type recordingTarget struct {
	positions [][3]float32
	rotations [][4]float32
	scales    [][3]float32
	weights   [][]float32

	noTransform bool
	noMorph     bool
}

func (r *recordingTarget) Transform() TransformComponent {
	if r.noTransform {
		return nil
	}
	return r
}

func (r *recordingTarget) Morph() MorphComponent {
	if r.noMorph {
		return nil
	}
	return r
}

func (r *recordingTarget) SetPosition(p [3]float32) { r.positions = append(r.positions, p) }
func (r *recordingTarget) SetRotation(q [4]float32) { r.rotations = append(r.rotations, q) }
func (r *recordingTarget) SetScale(s [3]float32)    { r.scales = append(r.scales, s) }

func (r *recordingTarget) SetWeights(w []float32) {
	r.weights = append(r.weights, append([]float32(nil), w...))
}

func (r *recordingTarget) writes() int {
	return len(r.positions) + len(r.rotations) + len(r.scales) + len(r.weights)
}

func mustChannel(t *testing.T, d ChannelData) Channel {
	t.Helper()
	ch, err := NewChannel(d)
	if err != nil {
		t.Fatalf("NewChannel: %v", err)
	}
	return ch
}

func approxSlice(a, b []float32, eps float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		d := a[i] - b[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

func sameRotation(a, b [4]float32, eps float32) bool {
	neg := [4]float32{-b[0], -b[1], -b[2], -b[3]}
	return approxSlice(a[:], b[:], eps) || approxSlice(a[:], neg[:], eps)
}
