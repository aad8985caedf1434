package touchtime

import (
	"math"
	"testing"
)

var testCenter = Point{X: 100, Y: 100}

func deg(d float64) float64 {
	return d * math.Pi / 180
}

// onDial returns the point at radius 50 and angle d degrees.
func onDial(d float64) Point {
	return Point{
		X: testCenter.X + 50*math.Sin(deg(d)),
		Y: testCenter.Y - 50*math.Cos(deg(d)),
	}
}

func TestTouchAngle(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"twelve", Point{100, 20}, 0},
		{"three", Point{180, 100}, math.Pi / 2},
		{"six", Point{100, 180}, math.Pi},
		{"nine", Point{20, 100}, -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TouchAngle(tt.p, testCenter)
			if !ok {
				t.Fatal("expected angle")
			}
			if !floatEquals(got, tt.want) {
				t.Errorf("TouchAngle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPressing(t *testing.T) {
	tests := []struct {
		name   string
		touch  float64 // degrees
		target float64 // degrees
		want   bool
	}{
		{"exact", 90, 90, true},
		{"clockwise inside", 95, 90, true},
		{"clockwise outside", 97, 90, false},
		{"anticlockwise inside", 85, 90, true},
		{"anticlockwise outside", 83, 90, false},
		{"clockwise just under tolerance", 90 + 5.999, 90, true},
		{"clockwise just over tolerance", 90 + 6.001, 90, false},
		{"anticlockwise just under tolerance", 90 - 5.999, 90, true},
		{"anticlockwise just over tolerance", 90 - 6.001, 90, false},
		{"wrap below twelve", 359, 2, true},
		{"wrap above twelve", 1, 358, true},
		{"wrap too far", 350, 2, false},
		{"opposite", 270, 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsPressing(onDial(tt.touch), testCenter, deg(tt.target))
			if got != tt.want {
				t.Errorf("IsPressing(%v°, %v°) = %v, want %v", tt.touch, tt.target, got, tt.want)
			}
		})
	}
}

func TestAngularDistanceFolding(t *testing.T) {
	tests := []struct {
		name          string
		touch, target float64 // degrees
		want          float64
	}{
		{"plain", 10, 4, 6},
		{"over 180 folds", 359, 2, 3},
		{"over 360 subtracts", -3, 358, 1},
		{"half turn", 0, 180, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularDistance(deg(tt.touch), deg(tt.target))
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("AngularDistance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPressingDegenerate(t *testing.T) {
	if IsPressing(testCenter, testCenter, 0) {
		t.Error("a touch on the hub must not press any hand")
	}
	if IsPressing(Point{math.NaN(), 10}, testCenter, 0) {
		t.Error("a NaN touch must not press any hand")
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want int
	}{
		{"twelve to three is clockwise", Point{100, 50}, Point{150, 100}, 1},
		{"three to twelve is anticlockwise", Point{150, 100}, Point{100, 50}, -1},
		{"colinear", Point{100, 50}, Point{100, 20}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Direction(testCenter, tt.a, tt.b); got != tt.want {
				t.Errorf("Direction() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCrossed(t *testing.T) {
	tests := []struct {
		name    string
		angle   float64
		last    Point
		hasLast bool
		history []Point
		want    bool
	}{
		{
			name:    "clockwise sweep over twelve",
			angle:   0,
			last:    Point{90, 50},
			hasLast: true,
			history: []Point{{95, 50}, {105, 50}},
			want:    true,
		},
		{
			name:    "anticlockwise sweep over twelve",
			angle:   0,
			last:    Point{110, 50},
			hasLast: true,
			history: []Point{{105, 50}, {95, 50}},
			want:    true,
		},
		{
			name:    "approach and retreat",
			angle:   0,
			last:    Point{90, 50},
			hasLast: true,
			history: []Point{{95, 50}, {98, 50}, {94, 50}},
			want:    false,
		},
		{
			name:    "sweep over three",
			angle:   math.Pi / 2,
			last:    Point{150, 90},
			hasLast: true,
			history: []Point{{150, 95}, {150, 105}},
			want:    true,
		},
		{
			name:    "no last position seeds from first history point",
			angle:   0,
			history: []Point{{90, 50}, {95, 50}, {105, 50}},
			want:    true,
		},
		{
			name:    "no last position and a single point",
			angle:   0,
			history: []Point{{105, 50}},
			want:    false,
		},
		{
			name:    "empty history",
			angle:   0,
			last:    Point{90, 50},
			hasLast: true,
			want:    false,
		},
		{
			name:    "NaN last position is unset",
			angle:   0,
			last:    Point{math.NaN(), math.NaN()},
			hasLast: true,
			history: []Point{{105, 50}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Crossed(tt.history, tt.last, tt.hasLast, testCenter, tt.angle)
			if got != tt.want {
				t.Errorf("Crossed() = %v, want %v", got, tt.want)
			}
		})
	}
}
