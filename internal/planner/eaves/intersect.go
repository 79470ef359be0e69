package eaves

import (
	"math"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// Corner mitering
// ============================================================

const (
	adjacencyThreshold = 10.0 // px
	parallelEpsilon    = 1e-10
)

// Adjacent reports whether any vertex of a lies within adjacencyThreshold of
// any vertex of b, i.e. the owning walls most likely share a corner.
func Adjacent(a, b models.Eave) bool {
	for _, p := range a.Points {
		for _, q := range b.Points {
			if geometry.Distance(p, q) < adjacencyThreshold {
				return true
			}
		}
	}
	return false
}

// LineIntersection intersects the infinite lines p1p2 and p3p4. ok is false
// for parallel or nearly parallel lines.
func LineIntersection(p1, p2, p3, p4 models.Point) (models.Point, bool) {
	denom := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(denom) < parallelEpsilon {
		return models.Point{}, false
	}

	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / denom
	return models.Point{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}

// FindAllIntersections intersects the outer edges (vertices 2 and 3) of every
// adjacent pair. Pairs without a miter point are skipped.
func FindAllIntersections(eaves []models.Eave) []models.Point {
	var out []models.Point
	for i := 0; i < len(eaves); i++ {
		for j := i + 1; j < len(eaves); j++ {
			a, b := eaves[i], eaves[j]
			if !Adjacent(a, b) {
				continue
			}
			if p, ok := LineIntersection(a.Points[2], a.Points[3], b.Points[2], b.Points[3]); ok {
				out = append(out, p)
			}
		}
	}
	return out
}
