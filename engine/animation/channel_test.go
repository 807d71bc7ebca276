package animation

import (
	"errors"
	"testing"
)

func TestNewChannelValidation(t *testing.T) {
	target := &recordingTarget{}
	vec3s := func(n int) [][]float32 {
		out := make([][]float32, n)
		for i := range out {
			out[i] = []float32{float32(i), 0, 0}
		}
		return out
	}

	tests := []struct {
		name string
		data ChannelData
	}{
		{"one timestamp", ChannelData{Path: PathTranslation, Timestamps: []float32{0}, Samples: vec3s(1), Target: target}},
		{"decreasing timestamps", ChannelData{Path: PathTranslation, Timestamps: []float32{0, 2, 1}, Samples: vec3s(3), Target: target}},
		{"negative timestamp", ChannelData{Path: PathTranslation, Timestamps: []float32{-1, 1}, Samples: vec3s(2), Target: target}},
		{"too few samples", ChannelData{Path: PathTranslation, Timestamps: []float32{0, 1}, Samples: vec3s(1), Target: target}},
		{"spline needs triples", ChannelData{Path: PathTranslation, Interpolation: InterpolationCubicSpline, Timestamps: []float32{0, 1}, Samples: vec3s(2), Target: target}},
		{"rotation arity", ChannelData{Path: PathRotation, Timestamps: []float32{0, 1}, Samples: vec3s(2), Target: target}},
		{"ragged weights", ChannelData{Path: PathWeights, Timestamps: []float32{0, 1}, Samples: [][]float32{{0, 1}, {0}}, Target: target}},
		{"empty weights", ChannelData{Path: PathWeights, Timestamps: []float32{0, 1}, Samples: [][]float32{{}, {}}, Target: target}},
		{"unknown path", ChannelData{Path: Path(42), Timestamps: []float32{0, 1}, Samples: vec3s(2), Target: target}},
		{"unknown interpolation", ChannelData{Path: PathScale, Interpolation: Interpolation(9), Timestamps: []float32{0, 1}, Samples: vec3s(2), Target: target}},
		{"no target", ChannelData{Path: PathScale, Timestamps: []float32{0, 1}, Samples: vec3s(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, err := NewChannel(tt.data)
			if !errors.Is(err, ErrInvalidChannelData) {
				t.Fatalf("err = %v, want ErrInvalidChannelData", err)
			}
			if ch != nil {
				t.Error("NewChannel returned a channel alongside an error")
			}
		})
	}
}

func TestNewChannelsReportsIndex(t *testing.T) {
	target := &recordingTarget{}
	good := ChannelData{Path: PathScale, Timestamps: []float32{0, 1}, Samples: [][]float32{{1, 1, 1}, {2, 2, 2}}, Target: target}
	bad := ChannelData{Name: "broken", Path: PathScale, Timestamps: []float32{0}, Samples: [][]float32{{1, 1, 1}}, Target: target}

	if _, err := NewChannels([]ChannelData{good, bad}); !errors.Is(err, ErrInvalidChannelData) {
		t.Fatalf("err = %v, want ErrInvalidChannelData", err)
	}
	channels, err := NewChannels([]ChannelData{good, good})
	if err != nil {
		t.Fatalf("NewChannels: %v", err)
	}
	if len(channels) != 2 {
		t.Errorf("len = %d, want 2", len(channels))
	}
}

func TestChannelAccessors(t *testing.T) {
	target := &recordingTarget{}
	ch := mustChannel(t, ChannelData{
		Name:          "bounce",
		Path:          PathTranslation,
		Interpolation: InterpolationCubicSpline,
		Timestamps:    []float32{0, 0.5, 2},
		Samples: [][]float32{
			{-1, -1, -1}, {0, 0, 0}, {1, 1, 1},
			{-2, -2, -2}, {5, 5, 5}, {2, 2, 2},
			{-3, -3, -3}, {9, 9, 9}, {3, 3, 3},
		},
		Target: target,
	})

	if ch.Name() != "bounce" || ch.Path() != PathTranslation || ch.Interpolation() != InterpolationCubicSpline {
		t.Fatalf("unexpected identity: %s %v %v", ch.Name(), ch.Path(), ch.Interpolation())
	}
	if ch.Target() != Target(target) {
		t.Error("Target() does not return the configured target")
	}
	if ch.KeyframeCount() != 3 || ch.Arity() != 3 || ch.Duration() != 2 {
		t.Errorf("count=%d arity=%d duration=%v", ch.KeyframeCount(), ch.Arity(), ch.Duration())
	}
	if got := ch.Value(1); !approxSlice(got, []float32{5, 5, 5}, 0) {
		t.Errorf("Value(1) = %v", got)
	}
	if got := ch.InTangent(2); !approxSlice(got, []float32{-3, -3, -3}, 0) {
		t.Errorf("InTangent(2) = %v", got)
	}
	if got := ch.OutTangent(0); !approxSlice(got, []float32{1, 1, 1}, 0) {
		t.Errorf("OutTangent(0) = %v", got)
	}
	if ch.Value(3) != nil {
		t.Error("Value out of range should be nil")
	}
}

func TestChannelCopiesInput(t *testing.T) {
	ts := []float32{0, 1}
	samples := [][]float32{{0, 0, 0}, {1, 1, 1}}
	ch := mustChannel(t, ChannelData{Path: PathScale, Timestamps: ts, Samples: samples, Target: &recordingTarget{}})

	ts[1] = 100
	samples[1][0] = 100
	if ch.Duration() != 1 || ch.Value(1)[0] != 1 {
		t.Error("channel aliases caller-owned slices")
	}
}

func TestLinearChannelHasNoTangents(t *testing.T) {
	ch := mustChannel(t, ChannelData{Path: PathScale, Timestamps: []float32{0, 1}, Samples: [][]float32{{1, 1, 1}, {2, 2, 2}}, Target: &recordingTarget{}})
	if ch.InTangent(0) != nil || ch.OutTangent(1) != nil {
		t.Error("non-spline channel returned tangents")
	}
}

func TestChannelSampleShortBuffer(t *testing.T) {
	ch := mustChannel(t, ChannelData{Path: PathScale, Timestamps: []float32{0, 1}, Samples: [][]float32{{1, 1, 1}, {2, 2, 2}}, Target: &recordingTarget{}})
	if _, ok := ch.Sample(0.5, make([]float32, 2)); ok {
		t.Error("Sample wrote into a buffer smaller than the arity")
	}
}

func TestParsePathAndInterpolation(t *testing.T) {
	for _, p := range []Path{PathTranslation, PathRotation, PathScale, PathWeights} {
		got, err := ParsePath(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePath(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePath("color"); !errors.Is(err, ErrInvalidChannelData) {
		t.Errorf("ParsePath(color) err = %v", err)
	}

	for _, m := range []Interpolation{InterpolationLinear, InterpolationStep, InterpolationCubicSpline} {
		got, err := ParseInterpolation(m.String())
		if err != nil || got != m {
			t.Errorf("ParseInterpolation(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseInterpolation(""); err != nil || got != InterpolationLinear {
		t.Errorf("ParseInterpolation(\"\") = %v, %v, want LINEAR", got, err)
	}
	if got, _ := ParseInterpolation("step"); got != InterpolationStep {
		t.Errorf("ParseInterpolation is case sensitive")
	}
	if _, err := ParseInterpolation("BEZIER"); !errors.Is(err, ErrInvalidChannelData) {
		t.Errorf("ParseInterpolation(BEZIER) err = %v", err)
	}
}
