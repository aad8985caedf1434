package touchtime

import "math"

// PressTolerance is the half-width of a hand's hit zone, in degrees.
const PressTolerance = 6.0

// Point is a position in view coordinates (y grows downwards).
type Point struct {
	X, Y float64
}

// IsNaN reports whether either coordinate is NaN.
func (p Point) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// Geometry is the size of the surface the face is drawn on.
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the dial centre.
func (g Geometry) Center() Point {
	return Point{X: 0.5 * g.Width, Y: 0.5 * g.Height}
}

// Valid reports whether the surface has a usable size.
func (g Geometry) Valid() bool {
	return g.Width > 0 && g.Height > 0
}

// TouchAngle returns the angle of p around center, clockwise from 12 o'clock,
// in (-π, π]. ok is false at the centre, where no angle exists.
func TouchAngle(p, center Point) (angle float64, ok bool) {
	if p.IsNaN() || center.IsNaN() || p == center {
		return math.NaN(), false
	}
	angle = math.Atan2(p.X-center.X, center.Y-p.Y)
	if math.IsNaN(angle) {
		return angle, false
	}
	return angle, true
}

// AngularDistance returns the distance between two angles in degrees,
// folded into [0, 180] for inputs within one turn of each other.
func AngularDistance(touch, target float64) float64 {
	diff := math.Abs(touch-target) * 180.0 / math.Pi
	if diff > 360.0 {
		diff -= 360.0
	}
	if diff > 180.0 {
		diff = 360.0 - diff
	}
	return diff
}

// IsPressing reports whether p lies on the hand pointing at target.
func IsPressing(p, center Point, target float64) bool {
	angle, ok := TouchAngle(p, center)
	if !ok {
		return false
	}
	return AngularDistance(angle, target) < PressTolerance
}

// RayPoint returns the point one unit from center along the hand at angle.
func RayPoint(center Point, angle float64) Point {
	return Point{
		X: center.X + math.Sin(angle),
		Y: center.Y - math.Cos(angle),
	}
}

// Direction returns the rotational direction of the vector from a to b
// relative to center: 1 clockwise, -1 anticlockwise, 0 colinear.
func Direction(center, a, b Point) int {
	cross := (a.X-center.X)*(b.Y-center.Y) - (b.X-center.X)*(a.Y-center.Y)
	switch {
	case cross < 0:
		return -1
	case cross > 0:
		return 1
	default:
		return 0
	}
}

// Crossed reports whether the path through history swept across the hand at
// angle. The path starts at last when hasLast is set; only history points
// are examined, the current sample position is not.
func Crossed(history []Point, last Point, hasLast bool, center Point, angle float64) bool {
	ray := RayPoint(center, angle)
	prev, havePrev := last, hasLast && !last.IsNaN()

	for _, p := range history {
		dir1 := 0
		if havePrev {
			dir1 = Direction(center, prev, ray)
		}
		dir2 := Direction(center, ray, p)

		if dir1 == dir2 && dir1 != 0 && dir1 == Direction(center, prev, p) {
			return true
		}
		prev, havePrev = p, true
	}
	return false
}
