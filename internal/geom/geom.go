package geom

import "math"

type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Len() float64    { return math.Hypot(a.X, a.Y) }
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// FromAngle is the unit vector pointing at angle (radians, 0 = east, y down).
func FromAngle(angle float64) Vec2 { return Vec2{math.Cos(angle), math.Sin(angle)} }

func Distance(a, b Vec2) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

// Angle is the bearing from a to b.
func Angle(a, b Vec2) float64 { return math.Atan2(b.Y-a.Y, b.X-a.X) }

// WrapAngle folds an angle into [-π, π).
func WrapAngle(a float64) float64 {
	const twoPi = 2 * math.Pi
	a = math.Mod(a+math.Pi, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a - math.Pi
}

// Direction8 quantises an angle to one of eight sprite facings,
// 0 = east, counting clockwise on screen (2 = south, 4 = west, 6 = north).
func Direction8(angle float64) int {
	n := math.Mod(angle, 2*math.Pi)
	if n < 0 {
		n += 2 * math.Pi
	}
	return int(math.Floor((n+math.Pi/8)/(2*math.Pi)*8)) % 8
}
