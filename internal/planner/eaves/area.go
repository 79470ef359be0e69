package eaves

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
)

// Ring is the closed orb ring of an eave polygon.
func Ring(e models.Eave) orb.Ring {
	ring := make(orb.Ring, 0, len(e.Points)+1)
	for _, p := range e.Points {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	return append(ring, ring[0])
}

// AreaM2 is the eave's covered area in square metres.
func AreaM2(e models.Eave) float64 {
	px2 := planar.Area(orb.Polygon{Ring(e)})
	if px2 < 0 {
		px2 = -px2
	}
	mm2 := px2 * geometry.PixelToMm * geometry.PixelToMm
	return mm2 / 1e6
}
