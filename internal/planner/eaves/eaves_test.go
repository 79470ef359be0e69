package eaves

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/ids"
	"scaff-planner/internal/planner/models"
)

func pt(x, y float64) models.Point {
	return models.Point{X: x, Y: y}
}

// rectangle is a closed 100x80 px outline drawn clockwise on screen.
func rectangle() []models.Wall {
	return []models.Wall{
		{ID: "top", Start: pt(0, 0), End: pt(100, 0)},
		{ID: "right", Start: pt(100, 0), End: pt(100, 80)},
		{ID: "bottom", Start: pt(100, 80), End: pt(0, 80)},
		{ID: "left", Start: pt(0, 80), End: pt(0, 0)},
	}
}

func reversed(walls []models.Wall) []models.Wall {
	out := make([]models.Wall, len(walls))
	for i, w := range walls {
		out[len(walls)-1-i] = models.Wall{ID: w.ID, Start: w.End, End: w.Start}
	}
	return out
}

func newGenerator() *Generator {
	return NewGenerator(ids.NewSequence(), ids.FixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestResolveOutwardRectangle(t *testing.T) {
	t.Parallel()
	centroid := pt(50, 40)
	for name, walls := range map[string][]models.Wall{
		"clockwise":        rectangle(),
		"counterclockwise": reversed(rectangle()),
	} {
		for _, w := range walls {
			out := ResolveOutward(w, walls)
			toCentroid := geometry.Sub(centroid, geometry.WallCenter(w))
			dot := out.X*toCentroid.X + out.Y*toCentroid.Y
			assert.Less(t, dot, 0.0, "%s/%s points inward: %+v", name, w.ID, out)
			assert.InDelta(t, 1.0, geometry.Distance(models.Point{}, out), 1e-12)
		}
	}
}

func TestResolveOutwardLoneWall(t *testing.T) {
	t.Parallel()
	w := models.Wall{ID: "only", Start: pt(0, 0), End: pt(100, 0)}
	assert.Equal(t, pt(0, -1), ResolveOutward(w, []models.Wall{w}))
	assert.Equal(t, pt(0, -1), ResolveOutward(w, nil))
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	g := newGenerator()
	walls := rectangle()
	settings := models.DefaultEaveSettings()

	e := g.Generate(walls[0], 600, walls, settings)
	assert.Equal(t, "eave-1", e.ID)
	assert.Equal(t, "top", e.WallID)
	assert.Equal(t, walls[0].Start, e.Points[0])
	assert.Equal(t, walls[0].End, e.Points[1])
	assert.Equal(t, pt(100, -30), e.Points[2])
	assert.Equal(t, pt(0, -30), e.Points[3])
	assert.Equal(t, 600.0, e.Distance)
	assert.Equal(t, settings.Color, e.Color)
	assert.Equal(t, settings.Opacity, e.Opacity)
	assert.True(t, e.IsVisible)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestGenerateZeroDistance(t *testing.T) {
	t.Parallel()
	walls := rectangle()
	e := newGenerator().Generate(walls[1], 0, walls, models.DefaultEaveSettings())
	assert.Equal(t, e.Points[1], e.Points[2])
	assert.Equal(t, e.Points[0], e.Points[3])
}

func TestGenerateAll(t *testing.T) {
	t.Parallel()
	g := newGenerator()
	walls := rectangle()
	settings := models.DefaultEaveSettings()

	first := g.GenerateAll(walls, settings)
	second := g.GenerateAll(walls, settings)
	require.Len(t, first, 4)
	require.Len(t, second, 4)
	for i := range first {
		assert.Equal(t, walls[i].Start, first[i].Points[0])
		assert.Equal(t, walls[i].End, first[i].Points[1])
		assert.Equal(t, first[i].Points, second[i].Points)
		assert.Equal(t, first[i].Distance, second[i].Distance)
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}

	settings.AutoGenerate = false
	assert.Empty(t, g.GenerateAll(walls, settings))
}

func TestUpdateDistance(t *testing.T) {
	t.Parallel()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	walls := rectangle()

	e := NewGenerator(ids.NewSequence(), ids.FixedClock(created)).Generate(walls[1], 600, walls, models.DefaultEaveSettings())
	g := NewGenerator(ids.NewSequence(), ids.FixedClock(later))

	got := g.UpdateDistance(e, 1000, walls)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, 1000.0, got.Distance)
	assert.Equal(t, pt(150, 80), got.Points[2])
	assert.Equal(t, pt(150, 0), got.Points[3])
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, later, got.UpdatedAt)

	orphan := g.UpdateDistance(e, 1000, walls[:1])
	assert.Equal(t, e, orphan)
}

func TestResetAll(t *testing.T) {
	t.Parallel()
	assert.Empty(t, newGenerator().ResetAll())
}

func TestLiveAndVisible(t *testing.T) {
	t.Parallel()
	walls := rectangle()
	all := newGenerator().GenerateAll(walls, models.DefaultEaveSettings())
	all[2].IsVisible = false

	live := Live(all, walls[1:])
	require.Len(t, live, 3)
	assert.Equal(t, "right", live[0].WallID)

	visible := Visible(all, walls[1:])
	require.Len(t, visible, 2)
	assert.Equal(t, "right", visible[0].WallID)
	assert.Equal(t, "left", visible[1].WallID)
	assert.False(t, all[2].IsVisible, "input untouched")
	assert.Equal(t, "top", all[0].WallID)
}

func TestAreaM2(t *testing.T) {
	t.Parallel()
	walls := rectangle()
	e := newGenerator().Generate(walls[0], 600, walls, models.DefaultEaveSettings())
	// 100px x 30px = 2000mm x 600mm
	assert.InDelta(t, 1.2, AreaM2(e), 1e-9)

	ring := Ring(e)
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
}
