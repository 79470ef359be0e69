package mapper

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"scaff-planner/internal/planner/eaves"
	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/walls"
)

// ============================================================
// XLSX export
// ============================================================

const (
	SheetWalls   = "Walls"
	SheetEaves   = "Eaves"
	SheetSummary = "Summary"
)

var (
	wallHeader = []interface{}{"ID", "Start X (mm)", "Start Y (mm)", "End X (mm)", "End Y (mm)", "Length (mm)", "Orientation", "Thickness (mm)", "Height (mm)"}
	eaveHeader = []interface{}{"ID", "Wall", "Distance (mm)", "Area (m²)", "Visible", "Color", "Opacity"}
)

// Workbook writes walls, eaves and a summary sheet. Coordinates are in mm.
func Workbook(d Drawing, summary models.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetWalls)
	if _, err := f.NewSheet(SheetEaves); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", SheetEaves, err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", SheetSummary, err)
	}

	wallRows := [][]interface{}{wallHeader}
	for _, w := range d.Walls {
		wallRows = append(wallRows, []interface{}{
			w.ID,
			geometry.PxToMm(w.Start.X), geometry.PxToMm(w.Start.Y),
			geometry.PxToMm(w.End.X), geometry.PxToMm(w.End.Y),
			walls.LengthMm(w), string(walls.Classify(w)),
			w.Thickness, w.Height,
		})
	}

	eaveRows := [][]interface{}{eaveHeader}
	for _, e := range d.Eaves {
		eaveRows = append(eaveRows, []interface{}{
			e.ID, e.WallID, e.Distance, eaves.AreaM2(e), e.IsVisible, e.Color, e.Opacity,
		})
	}

	summaryRows := [][]interface{}{
		{"Project", d.Name},
		{"Walls", summary.WallCount},
		{"Endpoints", summary.EndpointCount},
		{"Total length (mm)", summary.TotalLengthMm},
		{"Eaves", summary.EaveCount},
		{"Eave area (m²)", summary.EaveAreaM2},
	}

	for sheet, rows := range map[string][][]interface{}{
		SheetWalls:   wallRows,
		SheetEaves:   eaveRows,
		SheetSummary: summaryRows,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
