package eaves

import (
	"math"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// Outward direction
// ============================================================

const probeDistance = 50.0 // px

// ResolveOutward picks the wall normal that points away from the rest of the
// building. A probe is placed probeDistance from the wall's midpoint along
// each normal; the probe whose nearest other-wall midpoint is farther away is
// taken as outside.
//
// This is a distance vote over wall midpoints, not an interior test. It is
// reliable for convex, roughly rectangular outlines; concave footprints and
// isolated walls can pick the wrong side. With no other walls both minima are
// infinite and the right normal is returned.
func ResolveOutward(wall models.Wall, allWalls []models.Wall) models.Point {
	dir := geometry.Normalize(geometry.Direction(wall))
	left := geometry.LeftNormal(dir)
	right := geometry.RightNormal(dir)

	center := geometry.WallCenter(wall)
	leftProbe := geometry.Add(center, geometry.Scale(left, probeDistance))
	rightProbe := geometry.Add(center, geometry.Scale(right, probeDistance))

	leftMin, rightMin := math.Inf(1), math.Inf(1)
	for _, other := range allWalls {
		if other.ID == wall.ID {
			continue
		}
		otherCenter := geometry.WallCenter(other)
		leftMin = math.Min(leftMin, geometry.Distance(leftProbe, otherCenter))
		rightMin = math.Min(rightMin, geometry.Distance(rightProbe, otherCenter))
	}

	if leftMin > rightMin {
		return left
	}
	return right
}
