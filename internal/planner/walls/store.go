package walls

import (
	"math"

	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/ids"
	"scaff-planner/internal/planner/models"
)

// ============================================================
// Wall Store
// ============================================================

const (
	DefaultThickness = 150.0  // mm
	DefaultHeight    = 2400.0 // mm
)

// Store is the ordered wall collection. It is not safe for concurrent use;
// callers serialise access.
type Store struct {
	walls   []models.Wall
	ids     ids.Generator
	version int
}

func NewStore(gen ids.Generator) *Store {
	if gen == nil {
		gen = ids.UUID{}
	}
	return &Store{ids: gen}
}

// Commit creates a wall from start to end. Drags shorter than
// geometry.MinWallLength are rejected and ok is false.
func (s *Store) Commit(start, end models.Point) (models.Wall, bool) {
	if geometry.Distance(start, end) < geometry.MinWallLength {
		return models.Wall{}, false
	}

	w := models.Wall{
		ID:        s.ids.NewID("wall"),
		Start:     start,
		End:       end,
		Thickness: DefaultThickness,
		Height:    DefaultHeight,
	}
	s.walls = append(s.walls, w)
	s.version++
	return w, true
}

// Remove deletes a wall. Eaves owned by it are left to the caller.
func (s *Store) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.walls = append(s.walls[:i], s.walls[i+1:]...)
	s.version++
	return true
}

// SetLength moves the wall's end so that its length becomes lengthMm,
// keeping start and direction. A zero-length wall is left unchanged and ok
// is false.
func (s *Store) SetLength(id string, lengthMm int) (models.Wall, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Wall{}, false
	}

	w, ok := Resize(s.walls[i], lengthMm)
	if !ok {
		return s.walls[i], false
	}
	s.walls[i] = w
	s.version++
	return w, true
}

func (s *Store) Get(id string) (models.Wall, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Wall{}, false
	}
	return s.walls[i], true
}

// List returns a copy of the walls in drawing order.
func (s *Store) List() []models.Wall {
	out := make([]models.Wall, len(s.walls))
	copy(out, s.walls)
	return out
}

func (s *Store) Len() int {
	return len(s.walls)
}

// Version changes on every mutation; indexes derived from the walls compare
// it to know when to rebuild.
func (s *Store) Version() int {
	return s.version
}

// Replace restores a wall list, e.g. from a snapshot or a stored project.
func (s *Store) Replace(walls []models.Wall) {
	s.walls = make([]models.Wall, len(walls))
	copy(s.walls, walls)
	s.version++
}

func (s *Store) Clear() {
	s.walls = nil
	s.version++
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.walls {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// ============================================================
// Length & classification
// ============================================================

// LengthMm is the user-entered length when present, else the rounded
// pixel length converted to millimetres.
func LengthMm(w models.Wall) int {
	if w.UserLength != nil {
		return *w.UserLength
	}
	return geometry.LengthMm(geometry.WallLength(w))
}

// Resize scales the direction vector from start so the wall measures
// lengthMm, and records lengthMm as the user length.
func Resize(w models.Wall, lengthMm int) (models.Wall, bool) {
	current := geometry.WallLength(w)
	if current == 0 {
		return w, false
	}

	ratio := geometry.MmToPx(float64(lengthMm)) / current
	dir := geometry.Direction(w)
	w.End = geometry.Add(w.Start, geometry.Scale(dir, ratio))

	length := lengthMm
	w.UserLength = &length
	return w, true
}

// Classify is for display only; snapping never consults it.
func Classify(w models.Wall) models.Orientation {
	d := geometry.Direction(w)
	switch {
	case math.Abs(d.Y) < geometry.AxisThreshold:
		return models.Horizontal
	case math.Abs(d.X) < geometry.AxisThreshold:
		return models.Vertical
	default:
		return models.Diagonal
	}
}
