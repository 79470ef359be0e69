package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/walls"
)

// ============================================================
// Renderer
// ============================================================

const (
	wallStroke   = "#1e293b"
	labelColor   = "#334155"
	miterColor   = "#ef4444"
	miterRadius  = 3.0 // px
	labelOffset  = 12.0
	labelSize    = 10.0
	minWallWidth = 1.0 // px
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds a standalone SVG document in drawing coordinates (px).
func (r *Renderer) Render(d Drawing) (string, error) {
	b := d.extent()

	var elements []string
	elements = append(elements, r.renderEaves(d)...)
	elements = append(elements, r.renderWalls(d)...)
	if d.Settings.ShowDimensions {
		elements = append(elements, r.renderDimensions(d)...)
	}
	elements = append(elements, r.renderMiters(d)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(b.width()), formatFloat(b.height()),
		formatFloat(b.minX), formatFloat(b.minY), formatFloat(b.width()), formatFloat(b.height())))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderWalls(d Drawing) []string {
	out := make([]string, 0, len(d.Walls))
	for _, w := range d.Walls {
		width := geometry.MmToPx(w.Thickness)
		if width < minWallWidth {
			width = minWallWidth
		}
		out = append(out, fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="square" />`,
			escape(w.ID), formatFloat(w.Start.X), formatFloat(w.Start.Y), formatFloat(w.End.X), formatFloat(w.End.Y),
			wallStroke, formatFloat(width)))
	}
	return out
}

func (r *Renderer) renderEaves(d Drawing) []string {
	dash := dashArray(d.Settings.StrokeStyle)

	var out []string
	for _, e := range d.VisibleEaves() {
		var pts []string
		for _, p := range e.Points {
			pts = append(pts, formatFloat(p.X)+","+formatFloat(p.Y))
		}

		var elem strings.Builder
		elem.WriteString(fmt.Sprintf(`<polygon id="%s" data-wall="%s" points="%s" fill="%s" fill-opacity="%s" stroke="%s"`,
			escape(e.ID), escape(e.WallID), strings.Join(pts, " "), escape(e.Color), formatFloat(e.Opacity), escape(e.Color)))
		if dash != "" {
			elem.WriteString(` stroke-dasharray="` + dash + `"`)
		}
		elem.WriteString(` />`)
		out = append(out, elem.String())
	}
	return out
}

// renderDimensions puts the wall length in mm just off the wall's midpoint.
func (r *Renderer) renderDimensions(d Drawing) []string {
	out := make([]string, 0, len(d.Walls))
	for _, w := range d.Walls {
		mid := geometry.WallCenter(w)
		n := geometry.LeftNormal(geometry.Normalize(geometry.Direction(w)))
		at := geometry.Add(mid, geometry.Scale(n, labelOffset))
		out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" fill="%s" text-anchor="middle">%d mm</text>`,
			formatFloat(at.X), formatFloat(at.Y), formatFloat(labelSize), labelColor, walls.LengthMm(w)))
	}
	return out
}

func (r *Renderer) renderMiters(d Drawing) []string {
	var out []string
	for _, p := range d.Intersections() {
		out = append(out, fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" />`,
			formatFloat(p.X), formatFloat(p.Y), formatFloat(miterRadius), miterColor))
	}
	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func dashArray(s models.StrokeStyle) string {
	switch s {
	case models.StrokeDashed:
		return "8 4"
	case models.StrokeDotted:
		return "2 3"
	default:
		return ""
	}
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")

func escape(s string) string {
	return attrEscaper.Replace(s)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
