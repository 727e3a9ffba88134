package voxelize

import (
	"testing"

	"github.com/gmlewis/obj2voxel/geom"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
		ok   bool
	}{
		{"BLEND", Blend, true},
		{"MAX", Max, true},
		{"blend", 0, false}, // ParseStrategy is case-sensitive
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseStrategy(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseStrategy(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStrategyStringRoundTrip(t *testing.T) {
	for _, s := range []Strategy{Blend, Max} {
		name := s.String()
		got, ok := ParseStrategy(name)
		if !ok || got != s {
			t.Errorf("ParseStrategy(%q) = (%v, %v), want (%v, true)", name, got, ok, s)
		}
	}
}

func TestCombineBlend(t *testing.T) {
	a := geom.WeightedColor{Weight: 1, Value: geom.Vec3{1, 0, 0}}
	b := geom.WeightedColor{Weight: 3, Value: geom.Vec3{0, 1, 0}}

	got := Blend.Combine(a, b)
	want := geom.WeightedColor{Weight: 4, Value: geom.Vec3{0.25, 0.75, 0}}
	if got != want {
		t.Errorf("Blend.Combine = %+v, want %+v", got, want)
	}
}

func TestCombineMaxPicksGreaterWeight(t *testing.T) {
	small := geom.WeightedColor{Weight: 1, Value: geom.Vec3{1, 0, 0}}
	large := geom.WeightedColor{Weight: 5, Value: geom.Vec3{0, 1, 0}}

	if got := Max.Combine(small, large); got != large {
		t.Errorf("Max.Combine(small, large) = %+v, want %+v", got, large)
	}
	if got := Max.Combine(large, small); got != large {
		t.Errorf("Max.Combine(large, small) = %+v, want %+v", got, large)
	}
}

func TestCombineMaxTieBreaksToTarget(t *testing.T) {
	target := geom.WeightedColor{Weight: 2, Value: geom.Vec3{1, 0, 0}}
	source := geom.WeightedColor{Weight: 2, Value: geom.Vec3{0, 1, 0}}

	if got := Max.Combine(target, source); got != target {
		t.Errorf("Max.Combine with equal weights = %+v, want target %+v", got, target)
	}
}
