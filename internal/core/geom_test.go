package core

import (
	"math"
	"testing"
)

func TestCollides(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Circle
		expected bool
	}{
		{
			name:     "overlapping circles",
			a:        Circle{Center: Vec{0, 0}, R: 10},
			b:        Circle{Center: Vec{5, 5}, R: 10},
			expected: true,
		},
		{
			name:     "far apart",
			a:        Circle{Center: Vec{0, 0}, R: 10},
			b:        Circle{Center: Vec{100, 0}, R: 10},
			expected: false,
		},
		{
			name:     "exactly touching counts",
			a:        Circle{Center: Vec{0, 0}, R: 10},
			b:        Circle{Center: Vec{30, 0}, R: 20},
			expected: true,
		},
		{
			name:     "just beyond touching",
			a:        Circle{Center: Vec{0, 0}, R: 10},
			b:        Circle{Center: Vec{30.01, 0}, R: 20},
			expected: false,
		},
		{
			name:     "contained circle",
			a:        Circle{Center: Vec{0, 0}, R: 50},
			b:        Circle{Center: Vec{3, 4}, R: 1},
			expected: true,
		},
		{
			name:     "zero radius points at same spot",
			a:        Circle{Center: Vec{7, 7}},
			b:        Circle{Center: Vec{7, 7}},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Collides(tc.a, tc.b)
			if result != tc.expected {
				t.Errorf("Collides() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := Collides(tc.b, tc.a)
			if resultReverse != result {
				t.Errorf("Collides() (reversed) = %v, expected %v", resultReverse, result)
			}
		})
	}
}

func TestCollidesSymmetryGrid(t *testing.T) {
	for x := -40.0; x <= 40; x += 7.5 {
		for y := -40.0; y <= 40; y += 7.5 {
			a := Circle{Center: Vec{0, 0}, R: 12}
			b := Circle{Center: Vec{x, y}, R: 9}
			if Collides(a, b) != Collides(b, a) {
				t.Fatalf("Collides not symmetric at (%v, %v)", x, y)
			}
		}
	}
}

func TestVecOps(t *testing.T) {
	v := Vec{3, 4}
	if v.Len() != 5 {
		t.Errorf("Len() = %v, expected 5", v.Len())
	}

	n := v.Normalize()
	if math.Abs(n.Len()-1) > 1e-9 {
		t.Errorf("Normalize().Len() = %v, expected 1", n.Len())
	}

	if (Vec{}).Normalize() != (Vec{}) {
		t.Error("Normalize of zero vector should be zero")
	}

	mid := Lerp(Vec{0, 0}, Vec{10, 20}, 0.5)
	if mid != (Vec{5, 10}) {
		t.Errorf("Lerp() = %v, expected {5 10}", mid)
	}

	if Distance(Vec{1, 1}, Vec{4, 5}) != 5 {
		t.Errorf("Distance() = %v, expected 5", Distance(Vec{1, 1}, Vec{4, 5}))
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 4, 20, 5)
	if r.Right() != 30 || r.Bottom() != 9 {
		t.Errorf("Right(), Bottom() = %d, %d, expected 30, 9", r.Right(), r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}

	if ClampF(-5.5, 0, 10) != 0 || ClampF(15.5, 0, 10) != 10 {
		t.Error("ClampF should clamp to bounds")
	}
}
