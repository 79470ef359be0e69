package mapper

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/vector"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// PNG preview
// ============================================================

const defaultPreviewSize = 800 // px, longest side

var (
	previewBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	previewWall       = color.NRGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}
	fallbackEave      = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

type Previewer struct {
	// MaxSize bounds the longer image side; zero means defaultPreviewSize.
	MaxSize int
}

// PNG rasterises visible eaves then walls, scaled to fit MaxSize.
func (p Previewer) PNG(d Drawing) ([]byte, error) {
	maxSize := p.MaxSize
	if maxSize <= 0 {
		maxSize = defaultPreviewSize
	}

	b := d.extent()
	scale := float64(maxSize) / math.Max(b.width(), b.height())
	w := int(math.Ceil(b.width() * scale))
	h := int(math.Ceil(b.height() * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)

	project := func(pt models.Point) (float32, float32) {
		return float32((pt.X - b.minX) * scale), float32((pt.Y - b.minY) * scale)
	}

	for _, e := range d.VisibleEaves() {
		c := ParseHexColor(e.Color, fallbackEave)
		c.A = uint8(math.Round(float64(c.A) * clampUnit(e.Opacity)))
		fillPolygon(img, e.Points[:], project, c)
	}

	for _, wall := range d.Walls {
		half := math.Max(geometry.MmToPx(wall.Thickness)*scale, minWallWidth) / 2 / scale
		fillPolygon(img, wallQuad(wall, half), project, previewWall)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func fillPolygon(dst draw.Image, pts []models.Point, project func(models.Point) (float32, float32), c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	size := dst.Bounds().Size()
	z := vector.NewRasterizer(size.X, size.Y)
	z.DrawOp = draw.Over

	x, y := project(pts[0])
	z.MoveTo(x, y)
	for _, pt := range pts[1:] {
		x, y = project(pt)
		z.LineTo(x, y)
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// wallQuad outlines a wall as a rectangle half px either side of its centre
// line. A zero-length wall becomes a square around its start.
func wallQuad(w models.Wall, half float64) []models.Point {
	dir := geometry.Normalize(geometry.Direction(w))
	if dir == (models.Point{}) {
		dir = models.Point{X: 1}
	}
	n := geometry.Scale(geometry.LeftNormal(dir), half)
	along := geometry.Scale(dir, half)

	start := geometry.Sub(w.Start, along)
	end := geometry.Add(w.End, along)
	return []models.Point{
		geometry.Add(start, n),
		geometry.Add(end, n),
		geometry.Sub(end, n),
		geometry.Sub(start, n),
	}
}

// ParseHexColor reads #rgb or #rrggbb; anything else yields fallback.
func ParseHexColor(s string, fallback color.NRGBA) color.NRGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
