// Package parser reads wall outlines from SVG floor plans.
package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"scaff-planner/internal/planner/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Group
}

// Group mirrors <g>; plans exported from CAD tools nest their walls in
// layers.
type Group struct {
	ID     string  `xml:"id,attr"`
	Lines  []Line  `xml:"line"`
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Groups []Group `xml:"g"`
}

type Line struct {
	ID string  `xml:"id,attr"`
	X1 float64 `xml:"x1,attr"`
	Y1 float64 `xml:"y1,attr"`
	X2 float64 `xml:"x2,attr"`
	Y2 float64 `xml:"y2,attr"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// Segment is one imported wall candidate, start then end.
type Segment = [2]models.Point

// ============================================================
// Parser
// ============================================================

// ParseSVG returns wall segments in document order. Lines and paths are
// always taken; rects only when their id marks them as walls, since plans use
// rects for backgrounds and furniture too.
func ParseSVG(r io.Reader) ([]Segment, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	var segments []Segment
	if err := collect(svg.Group, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

func collect(g Group, out *[]Segment) error {
	for _, l := range g.Lines {
		*out = append(*out, Segment{{X: l.X1, Y: l.Y1}, {X: l.X2, Y: l.Y2}})
	}

	for _, rect := range g.Rects {
		if !isWallID(rect.ID) && !isWallID(g.ID) {
			continue
		}
		*out = append(*out, rectCenterline(rect))
	}

	for _, path := range g.Paths {
		subpaths, err := ParseSubpaths(path.D)
		if err != nil {
			return fmt.Errorf("path %q: %w", path.ID, err)
		}
		for _, points := range subpaths {
			for i := 1; i < len(points); i++ {
				*out = append(*out, Segment{points[i-1], points[i]})
			}
		}
	}

	for _, child := range g.Groups {
		if err := collect(child, out); err != nil {
			return err
		}
	}
	return nil
}

// rectCenterline runs along the long side through the middle of the short
// side.
func rectCenterline(r Rect) Segment {
	if r.Width >= r.Height {
		y := r.Y + r.Height/2
		return Segment{{X: r.X, Y: y}, {X: r.X + r.Width, Y: y}}
	}
	x := r.X + r.Width/2
	return Segment{{X: x, Y: r.Y}, {X: x, Y: r.Y + r.Height}}
}

func isWallID(id string) bool {
	id = strings.ToLower(id)
	return strings.HasPrefix(id, "wall") ||
		strings.HasSuffix(id, "_wall") ||
		strings.HasSuffix(id, "-wall")
}
