package geometry

import "math"

// ============================================================
// Drawing scale
// ============================================================

const (
	PixelToMm = 20.0 // 1px = 20mm
	GridSize  = 25.0 // px, one cell = 500mm

	EndpointSnapThreshold = 15.0 // px
	MinWallLength         = 5.0  // px
	AxisThreshold         = 3.0  // px
)

func PxToMm(px float64) float64 {
	return px * PixelToMm
}

func MmToPx(mm float64) float64 {
	return mm / PixelToMm
}

// LengthMm is the rounded millimetre length of a pixel distance.
func LengthMm(px float64) int {
	return int(math.Round(px * PixelToMm))
}

func SnapToGrid(v float64) float64 {
	return math.Round(v/GridSize) * GridSize
}
