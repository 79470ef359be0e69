package parser

import (
	"math"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// Outline cleanup
// ============================================================

const (
	weldTolerance     = 8.0 // px, endpoints closer than this become one
	straightTolerance = 4.0 // px, off-axis drift squared up
)

// Tidy welds endpoints that nearly coincide and squares up near-axis
// segments so an imported outline snaps and miters like a drawn one.
// Segments that collapse to a point are dropped.
func Tidy(segments []Segment) []Segment {
	welded, vertices := weld(segments, weldTolerance)
	straighten(welded, vertices, straightTolerance)

	out := make([]Segment, 0, len(welded))
	for _, s := range welded {
		a, b := vertices[s[0]], vertices[s[1]]
		if a == b {
			continue
		}
		out = append(out, Segment{a, b})
	}
	return out
}

// weld maps every endpoint to the first earlier vertex within tol and
// returns segments as vertex index pairs.
func weld(segments []Segment, tol float64) ([][2]int, []models.Point) {
	var vertices []models.Point
	vertexOf := func(p models.Point) int {
		for i, v := range vertices {
			if geometry.Distance(p, v) < tol {
				return i
			}
		}
		vertices = append(vertices, p)
		return len(vertices) - 1
	}

	out := make([][2]int, 0, len(segments))
	for _, s := range segments {
		out = append(out, [2]int{vertexOf(s[0]), vertexOf(s[1])})
	}
	return out, vertices
}

// straighten moves the vertices of near-horizontal segments onto their mean
// y and those of near-vertical segments onto their mean x. A vertex shared
// by several such segments takes the average of their targets.
func straighten(segments [][2]int, vertices []models.Point, tol float64) {
	type agg struct {
		sumX, sumY float64
		cntX, cntY int
	}
	aggs := make([]agg, len(vertices))

	for _, s := range segments {
		v1, v2 := vertices[s[0]], vertices[s[1]]
		dx := v1.X - v2.X
		dy := v1.Y - v2.Y

		switch {
		case math.Abs(dy) <= tol && math.Abs(dx) > tol:
			target := (v1.Y + v2.Y) / 2
			for _, i := range s {
				aggs[i].sumY += target
				aggs[i].cntY++
			}
		case math.Abs(dx) <= tol && math.Abs(dy) > tol:
			target := (v1.X + v2.X) / 2
			for _, i := range s {
				aggs[i].sumX += target
				aggs[i].cntX++
			}
		}
	}

	for i, a := range aggs {
		if a.cntX > 0 {
			vertices[i].X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			vertices[i].Y = a.sumY / float64(a.cntY)
		}
	}
}
