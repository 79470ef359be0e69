// Package snap corrects raw pointer positions against existing wall
// endpoints, the drawing grid and the axes through the drag start.
//
// Priority is fixed: an endpoint match wins outright; otherwise the grid is
// applied, and the axis lock is applied on top of the grid result.
package snap

import (
	"math"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
)

type Result struct {
	Point             models.Point `json:"point"`
	SnappedToEndpoint bool         `json:"snappedToEndpoint"`
}

// Resolve never mutates the walls behind endpoints. dragStart is nil outside
// a drag, which disables the axis lock. endpoints may be nil.
func Resolve(raw models.Point, endpoints EndpointFinder, dragStart *models.Point, modes models.SnapModes) Result {
	if modes.Endpoint {
		if p, ok := nearEndpoint(raw, endpoints); ok {
			return Result{Point: p, SnappedToEndpoint: true}
		}
	}

	p := raw
	if modes.Grid {
		p = models.Point{X: geometry.SnapToGrid(p.X), Y: geometry.SnapToGrid(p.Y)}
	}
	if modes.Axis && dragStart != nil {
		p = lockAxis(p, *dragStart)
	}
	return Result{Point: p}
}

// State reports the transient snap feedback for the pointer at raw.
func State(raw models.Point, endpoints EndpointFinder, modes models.SnapModes) models.SnapState {
	st := models.SnapState{Pointer: raw, Modes: modes}
	if !modes.Endpoint {
		return st
	}
	if p, ok := nearEndpoint(raw, endpoints); ok {
		st.NearestEndpoint = &p
	}
	return st
}

func nearEndpoint(raw models.Point, endpoints EndpointFinder) (models.Point, bool) {
	if endpoints == nil {
		return models.Point{}, false
	}
	p, dist, ok := endpoints.Nearest(raw)
	if !ok || dist >= geometry.EndpointSnapThreshold {
		return models.Point{}, false
	}
	return p, true
}

// lockAxis zeroes the smaller delta from start; a tie locks horizontally.
func lockAxis(p, start models.Point) models.Point {
	dx := math.Abs(p.X - start.X)
	dy := math.Abs(p.Y - start.Y)
	if dx >= dy {
		return models.Point{X: p.X, Y: start.Y}
	}
	return models.Point{X: start.X, Y: p.Y}
}
