// Package core provides fundamental types and utilities for keyfall.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Vec is a 2D point or direction in playfield units.
// Y grows downward, matching screen coordinates.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector in the direction of v.
// The zero vector normalizes to itself.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b Vec, t float64) Vec {
	return Vec{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared returns the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// Circle is a collision shape: a center and a radius.
type Circle struct {
	Center Vec
	R      float64
}

// Collides reports whether two circles touch or overlap.
// Touching circles (distance == rA + rB) count as a collision, and the
// test is symmetric in its arguments.
func Collides(a, b Circle) bool {
	sum := a.R + b.R
	return DistanceSquared(a.Center, b.Center) <= sum*sum
}

// Rect represents an axis-aligned bounding box in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
