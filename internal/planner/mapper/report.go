package mapper

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"scaff-planner/internal/planner/walls"
)

// ============================================================
// HTML report
// ============================================================

// Report renders an HTML page with a bar chart of wall lengths (mm) and the
// eave distance configured on each wall.
func Report(d Drawing) ([]byte, error) {
	title := d.Name
	if title == "" {
		title = "Untitled drawing"
	}

	distance := make(map[string]float64, len(d.Eaves))
	for _, e := range d.Eaves {
		distance[e.WallID] = e.Distance
	}

	labels := make([]string, 0, len(d.Walls))
	lengths := make([]opts.BarData, 0, len(d.Walls))
	overhangs := make([]opts.BarData, 0, len(d.Walls))
	for _, w := range d.Walls {
		labels = append(labels, w.ID)
		lengths = append(lengths, opts.BarData{Value: walls.LengthMm(w)})
		overhangs = append(overhangs, opts.BarData{Value: distance[w.ID]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "Wall lengths and eave distances (mm)"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Length", lengths).
		AddSeries("Eave distance", overhangs)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
