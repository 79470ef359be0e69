package mapper

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"scaff-planner/internal/planner/eaves"
	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/walls"
)

// ============================================================
// GeoJSON export
// ============================================================

// FeatureCollection has walls as LineStrings and eaves as Polygons, in
// millimetres with the drawing's y-down axis.
func FeatureCollection(d Drawing) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, w := range d.Walls {
		f := geojson.NewFeature(orb.LineString{toMm(w.Start), toMm(w.End)})
		f.ID = w.ID
		f.Properties["kind"] = "wall"
		f.Properties["lengthMm"] = walls.LengthMm(w)
		f.Properties["orientation"] = string(walls.Classify(w))
		f.Properties["thicknessMm"] = w.Thickness
		f.Properties["heightMm"] = w.Height
		fc.Append(f)
	}

	for _, e := range d.Eaves {
		ring := make(orb.Ring, 0, len(e.Points)+1)
		for _, p := range e.Points {
			ring = append(ring, toMm(p))
		}
		ring = append(ring, ring[0])

		f := geojson.NewFeature(orb.Polygon{ring})
		f.ID = e.ID
		f.Properties["kind"] = "eave"
		f.Properties["wallId"] = e.WallID
		f.Properties["distanceMm"] = e.Distance
		f.Properties["areaM2"] = eaves.AreaM2(e)
		f.Properties["visible"] = e.IsVisible
		f.Properties["color"] = e.Color
		fc.Append(f)
	}

	return fc
}

func GeoJSON(d Drawing) ([]byte, error) {
	data, err := FeatureCollection(d).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return data, nil
}

func toMm(p models.Point) orb.Point {
	return orb.Point{geometry.PxToMm(p.X), geometry.PxToMm(p.Y)}
}
