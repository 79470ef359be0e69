// Package mapper turns a drawing into the formats the service hands out:
// SVG, PNG preview, GeoJSON, XLSX and an HTML report.
package mapper

import (
	"math"

	"scaff-planner/internal/planner/eaves"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// Drawing
// ============================================================

// Drawing is what every exporter reads. Eaves are already filtered to ones
// whose wall exists.
type Drawing struct {
	Name     string
	Walls    []models.Wall
	Eaves    []models.Eave
	Settings models.EaveSettings
}

func NewDrawing(name string, walls []models.Wall, all []models.Eave, settings models.EaveSettings) Drawing {
	return Drawing{
		Name:     name,
		Walls:    walls,
		Eaves:    eaves.Live(all, walls),
		Settings: settings,
	}
}

// VisibleEaves are the eaves drawn in SVG and PNG output.
func (d Drawing) VisibleEaves() []models.Eave {
	return eaves.Visible(d.Eaves, d.Walls)
}

func (d Drawing) Intersections() []models.Point {
	return eaves.FindAllIntersections(d.VisibleEaves())
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func (b bounds) width() float64  { return b.maxX - b.minX }
func (b bounds) height() float64 { return b.maxY - b.minY }

const (
	boundsPadding = 20.0   // px
	emptyCanvas   = 1000.0 // px
)

// extent covers every wall and visible eave vertex plus padding. An empty
// drawing gets a fixed canvas at the origin.
func (d Drawing) extent() bounds {
	b := bounds{math.MaxFloat64, math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	add := func(p models.Point) {
		b.minX = math.Min(b.minX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxX = math.Max(b.maxX, p.X)
		b.maxY = math.Max(b.maxY, p.Y)
	}

	for _, w := range d.Walls {
		add(w.Start)
		add(w.End)
	}
	for _, e := range d.VisibleEaves() {
		for _, p := range e.Points {
			add(p)
		}
	}

	if b.minX == math.MaxFloat64 {
		return bounds{0, 0, emptyCanvas, emptyCanvas}
	}
	return bounds{
		minX: b.minX - boundsPadding,
		minY: b.minY - boundsPadding,
		maxX: b.maxX + boundsPadding,
		maxY: b.maxY + boundsPadding,
	}
}
