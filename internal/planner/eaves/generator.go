// Package eaves derives roof-overhang polygons from walls and finds the
// corner points where neighbouring overhangs meet.
package eaves

import (
	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/ids"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// Generator
// ============================================================

type Generator struct {
	ids ids.Generator
	now ids.Clock
}

func NewGenerator(gen ids.Generator, clock ids.Clock) *Generator {
	if gen == nil {
		gen = ids.UUID{}
	}
	if clock == nil {
		clock = ids.SystemClock
	}
	return &Generator{ids: gen, now: clock}
}

// Generate builds the eave for wall, offset distanceMm along its outward
// normal. allWalls is the voting population for the outward direction.
func (g *Generator) Generate(wall models.Wall, distanceMm float64, allWalls []models.Wall, settings models.EaveSettings) models.Eave {
	now := g.now()
	return models.Eave{
		ID:        g.ids.NewID("eave"),
		WallID:    wall.ID,
		Points:    Polygon(wall, distanceMm, allWalls),
		Distance:  distanceMm,
		Color:     settings.Color,
		Opacity:   settings.Opacity,
		IsVisible: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GenerateAll returns one eave per wall at the default distance, or nil when
// auto generation is off.
func (g *Generator) GenerateAll(walls []models.Wall, settings models.EaveSettings) []models.Eave {
	if !settings.AutoGenerate {
		return nil
	}

	out := make([]models.Eave, 0, len(walls))
	for _, w := range walls {
		out = append(out, g.Generate(w, settings.DefaultDistance, walls, settings))
	}
	return out
}

// UpdateDistance rebuilds the polygon at a new distance. The outward
// direction is resolved again since the walls may have changed. The eave is
// returned unchanged when its wall no longer exists.
func (g *Generator) UpdateDistance(eave models.Eave, distanceMm float64, allWalls []models.Wall) models.Eave {
	wall, ok := findWall(allWalls, eave.WallID)
	if !ok {
		return eave
	}

	eave.Distance = distanceMm
	eave.Points = Polygon(wall, distanceMm, allWalls)
	eave.UpdatedAt = g.now()
	return eave
}

// ResetAll drops every eave.
func (g *Generator) ResetAll() []models.Eave {
	return []models.Eave{}
}

// Polygon is [start, end, farEnd, farStart] for the wall's outward side.
func Polygon(wall models.Wall, distanceMm float64, allWalls []models.Wall) [4]models.Point {
	outward := ResolveOutward(wall, allWalls)
	offset := geometry.Scale(outward, geometry.MmToPx(distanceMm))

	return [4]models.Point{
		wall.Start,
		wall.End,
		geometry.Add(wall.End, offset),
		geometry.Add(wall.Start, offset),
	}
}

// ============================================================
// Collection helpers
// ============================================================

// Live drops eaves whose wall is gone. Consumers call it before rendering or
// exporting; the generator never cleans up orphans on its own.
func Live(eaves []models.Eave, walls []models.Wall) []models.Eave {
	known := make(map[string]struct{}, len(walls))
	for _, w := range walls {
		known[w.ID] = struct{}{}
	}

	out := make([]models.Eave, 0, len(eaves))
	for _, e := range eaves {
		if _, ok := known[e.WallID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Visible keeps the live eaves flagged visible.
func Visible(eaves []models.Eave, walls []models.Wall) []models.Eave {
	live := Live(eaves, walls)
	out := live[:0]
	for _, e := range live {
		if e.IsVisible {
			out = append(out, e)
		}
	}
	return out
}

func findWall(walls []models.Wall, id string) (models.Wall, bool) {
	for _, w := range walls {
		if w.ID == id {
			return w, true
		}
	}
	return models.Wall{}, false
}
