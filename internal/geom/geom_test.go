package geom

import (
	"math"
	"testing"
)

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"quarter", math.Pi / 2, math.Pi / 2},
		{"over_pi", 1.5 * math.Pi, -0.5 * math.Pi},
		{"under_neg_pi", -1.5 * math.Pi, 0.5 * math.Pi},
		{"full_turn", 2 * math.Pi, 0},
		{"many_turns", 7*math.Pi + 0.25, -math.Pi + 0.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := WrapAngle(c.in); math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("WrapAngle(%f) = %f, want %f", c.in, got, c.want)
			}
		})
	}
}

func TestDirection8(t *testing.T) {
	cases := []struct {
		angle float64
		want  int
	}{
		{0, 0},
		{math.Pi / 4, 1},
		{math.Pi / 2, 2},
		{math.Pi, 4},
		{-math.Pi / 2, 6},
		{-0.1, 0},
		{math.Pi/8 + 0.01, 1},
	}
	for _, c := range cases {
		if got := Direction8(c.angle); got != c.want {
			t.Errorf("Direction8(%f) = %d, want %d", c.angle, got, c.want)
		}
	}
}

func TestDistanceAndAngle(t *testing.T) {
	a, b := Vec2{1, 1}, Vec2{4, 5}
	if d := Distance(a, b); d != 5 {
		t.Fatalf("Distance = %f, want 5", d)
	}
	if ang := Angle(Vec2{}, Vec2{0, 3}); math.Abs(ang-math.Pi/2) > 1e-12 {
		t.Fatalf("Angle = %f, want π/2", ang)
	}
	if n := (Vec2{}).Norm(); n != (Vec2{}) {
		t.Fatalf("zero Norm = %v", n)
	}
	v := FromAngle(math.Pi).Scale(2)
	if math.Abs(v.X+2) > 1e-12 || math.Abs(v.Y) > 1e-12 {
		t.Fatalf("FromAngle(π)*2 = %v", v)
	}
}
