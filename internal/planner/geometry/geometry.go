// Package geometry holds the pure vector math used by the planner and the
// fixed pixel/millimetre scale of the drawing surface.
package geometry

import (
	"math"

	"scaff-planner/internal/planner/models"
)

// ============================================================
// Vector arithmetic
// ============================================================

func Distance(p1, p2 models.Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func Normalize(v models.Point) models.Point {
	length := math.Sqrt(v.X*v.X + v.Y*v.Y)
	if length == 0 {
		return models.Point{}
	}
	return models.Point{X: v.X / length, Y: v.Y / length}
}

// Direction is end - start.
func Direction(w models.Wall) models.Point {
	return Sub(w.End, w.Start)
}

func Add(a, b models.Point) models.Point {
	return models.Point{X: a.X + b.X, Y: a.Y + b.Y}
}

func Sub(a, b models.Point) models.Point {
	return models.Point{X: a.X - b.X, Y: a.Y - b.Y}
}

func Scale(v models.Point, factor float64) models.Point {
	return models.Point{X: v.X * factor, Y: v.Y * factor}
}

func Midpoint(a, b models.Point) models.Point {
	return models.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// LeftNormal rotates v by +90° as (-y, x).
func LeftNormal(v models.Point) models.Point {
	return models.Point{X: -v.Y, Y: v.X}
}

// RightNormal rotates v by -90° as (y, -x).
func RightNormal(v models.Point) models.Point {
	return models.Point{X: v.Y, Y: -v.X}
}

func WallLength(w models.Wall) float64 {
	return Distance(w.Start, w.End)
}

func WallCenter(w models.Wall) models.Point {
	return Midpoint(w.Start, w.End)
}
