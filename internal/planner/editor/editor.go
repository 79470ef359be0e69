package editor

import (
	"errors"
	"fmt"

	"scaff-planner/internal/planner/eaves"
	"scaff-planner/internal/planner/geometry"
	"scaff-planner/internal/planner/ids"
	"scaff-planner/internal/planner/models"
	"scaff-planner/internal/planner/snap"
	"scaff-planner/internal/planner/walls"
)

// ============================================================
// Errors
// ============================================================

var (
	ErrInvalidLength   = errors.New("length must be a positive whole number of millimetres")
	ErrInvalidDistance = errors.New("eave distance must not be negative")
	ErrInvalidSettings = errors.New("invalid eave settings")
	ErrUnknownWall     = errors.New("wall not found")
	ErrUnknownEave     = errors.New("eave not found")
)

// ============================================================
// Editor
// ============================================================

type Mode string

const (
	Idle     Mode = "idle"
	Dragging Mode = "dragging"
)

// kdTreeThreshold is the wall count from which endpoint snapping goes
// through a k-d tree instead of a linear scan.
const kdTreeThreshold = 64

type Options struct {
	IDs          ids.Generator
	Clock        ids.Clock
	Settings     *models.EaveSettings
	Modes        *models.SnapModes
	HistoryLimit int
}

// Editor drives one drawing: pointer events through an idle/dragging state
// machine, wall and eave edits, and undo. It is single-threaded; callers
// that share an Editor serialise access.
type Editor struct {
	walls    *walls.Store
	eaves    []models.Eave
	gen      *eaves.Generator
	settings models.EaveSettings
	modes    models.SnapModes
	history  *history

	mode      Mode
	dragStart models.Point
	current   models.Point
	pointer   models.Point

	index        snap.EndpointFinder
	indexVersion int
}

func New(opts Options) *Editor {
	settings := models.DefaultEaveSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	modes := models.AllSnapModes()
	if opts.Modes != nil {
		modes = *opts.Modes
	}

	return &Editor{
		walls:    walls.NewStore(opts.IDs),
		gen:      eaves.NewGenerator(opts.IDs, opts.Clock),
		settings: settings,
		modes:    modes,
		history:  newHistory(opts.HistoryLimit),
		mode:     Idle,
		// Store versions start at 0.
		indexVersion: -1,
	}
}

// ============================================================
// Pointer state machine
// ============================================================

// Down starts a drag at the snapped pointer position. Ignored while a drag
// is already in progress.
func (e *Editor) Down(raw models.Point) snap.Result {
	e.pointer = raw
	if e.mode == Dragging {
		return snap.Result{Point: e.current}
	}

	res := snap.Resolve(raw, e.endpoints(), nil, e.modes)
	e.mode = Dragging
	e.dragStart = res.Point
	e.current = res.Point
	return res
}

// Move re-snaps the pointer. While dragging the result is axis-locked to the
// drag start and becomes the pending wall end.
func (e *Editor) Move(raw models.Point) snap.Result {
	e.pointer = raw
	if e.mode != Dragging {
		return snap.Resolve(raw, e.endpoints(), nil, e.modes)
	}

	start := e.dragStart
	res := snap.Resolve(raw, e.endpoints(), &start, e.modes)
	e.current = res.Point
	return res
}

// Up ends the drag and commits the pending wall. ok is false when no drag
// was in progress or the drag was too short. Existing eaves are rebuilt
// against the updated wall list, and with auto generation the new wall gets
// its own eave.
func (e *Editor) Up() (models.Wall, bool) {
	if e.mode != Dragging {
		return models.Wall{}, false
	}
	e.mode = Idle

	before := e.snapshot()
	w, ok := e.walls.Commit(e.dragStart, e.current)
	if !ok {
		return models.Wall{}, false
	}
	e.history.push(before)
	e.refreshEaves()

	if e.settings.AutoGenerate {
		e.eaves = append(e.eaves, e.gen.Generate(w, e.settings.DefaultDistance, e.walls.List(), e.settings))
	}
	return w, true
}

// Cancel abandons a drag without committing.
func (e *Editor) Cancel() {
	e.mode = Idle
}

func (e *Editor) Mode() Mode {
	return e.mode
}

// Drag reports the pending wall while dragging.
func (e *Editor) Drag() (start, end models.Point, ok bool) {
	if e.mode != Dragging {
		return models.Point{}, models.Point{}, false
	}
	return e.dragStart, e.current, true
}

func (e *Editor) SnapState() models.SnapState {
	return snap.State(e.pointer, e.endpoints(), e.modes)
}

func (e *Editor) SetSnapModes(m models.SnapModes) {
	e.modes = m
}

func (e *Editor) SnapModes() models.SnapModes {
	return e.modes
}

func (e *Editor) endpoints() snap.EndpointFinder {
	if e.index != nil && e.indexVersion == e.walls.Version() {
		return e.index
	}

	list := e.walls.List()
	if len(list) >= kdTreeThreshold {
		e.index = snap.NewKDTree(list)
	} else {
		e.index = snap.Linear(list)
	}
	e.indexVersion = e.walls.Version()
	return e.index
}

// ============================================================
// Walls
// ============================================================

func (e *Editor) Walls() []models.Wall {
	return e.walls.List()
}

func (e *Editor) Wall(id string) (models.Wall, bool) {
	return e.walls.Get(id)
}

// EditLength applies a typed length to a wall. Text that is not a positive
// integer returns ErrInvalidLength and changes nothing. A zero-length wall
// cannot be rescaled and is returned unchanged. Eaves are rebuilt at their
// current distance.
func (e *Editor) EditLength(wallID, text string) (models.Wall, error) {
	lengthMm, err := ParseLength(text)
	if err != nil {
		return models.Wall{}, err
	}

	w, ok := e.walls.Get(wallID)
	if !ok {
		return models.Wall{}, fmt.Errorf("edit length %s: %w", wallID, ErrUnknownWall)
	}

	before := e.snapshot()
	resized, ok := e.walls.SetLength(wallID, lengthMm)
	if !ok {
		return w, nil
	}
	e.history.push(before)
	e.refreshEaves()
	return resized, nil
}

// DeleteWall removes a wall together with the eaves derived from it. The
// remaining eaves are rebuilt without it.
func (e *Editor) DeleteWall(id string) error {
	before := e.snapshot()
	if !e.walls.Remove(id) {
		return fmt.Errorf("delete wall %s: %w", id, ErrUnknownWall)
	}
	e.history.push(before)

	kept := e.eaves[:0]
	for _, ev := range e.eaves {
		if ev.WallID != id {
			kept = append(kept, ev)
		}
	}
	e.eaves = kept
	e.refreshEaves()
	return nil
}

// ImportWalls commits outline segments in order, skipping the ones too
// short to be walls, and generates eaves for the imported walls once the
// whole outline is present.
func (e *Editor) ImportWalls(segments [][2]models.Point) []models.Wall {
	before := e.snapshot()

	var added []models.Wall
	for _, seg := range segments {
		if w, ok := e.walls.Commit(seg[0], seg[1]); ok {
			added = append(added, w)
		}
	}
	if len(added) == 0 {
		return nil
	}
	e.history.push(before)
	e.refreshEaves()

	if e.settings.AutoGenerate {
		all := e.walls.List()
		for _, w := range added {
			e.eaves = append(e.eaves, e.gen.Generate(w, e.settings.DefaultDistance, all, e.settings))
		}
	}
	return added
}

// ============================================================
// Eaves
// ============================================================

func (e *Editor) Eaves() []models.Eave {
	out := make([]models.Eave, len(e.eaves))
	copy(out, e.eaves)
	return out
}

// GenerateAllEaves replaces every eave with a fresh one per wall. With auto
// generation off nothing changes and nil is returned.
func (e *Editor) GenerateAllEaves() []models.Eave {
	generated := e.gen.GenerateAll(e.walls.List(), e.settings)
	if generated == nil {
		return nil
	}
	e.history.push(e.snapshot())
	e.eaves = generated
	return e.Eaves()
}

func (e *Editor) ResetEaves() {
	e.history.push(e.snapshot())
	e.eaves = e.gen.ResetAll()
}

func (e *Editor) UpdateEaveDistance(eaveID string, distanceMm float64) (models.Eave, error) {
	if distanceMm < 0 {
		return models.Eave{}, ErrInvalidDistance
	}
	i := e.eaveIndex(eaveID)
	if i < 0 {
		return models.Eave{}, fmt.Errorf("update eave %s: %w", eaveID, ErrUnknownEave)
	}
	if _, ok := e.walls.Get(e.eaves[i].WallID); !ok {
		return models.Eave{}, fmt.Errorf("update eave %s: %w", eaveID, ErrUnknownWall)
	}

	e.history.push(e.snapshot())
	e.eaves[i] = e.gen.UpdateDistance(e.eaves[i], distanceMm, e.walls.List())
	return e.eaves[i], nil
}

func (e *Editor) ToggleEave(eaveID string) (models.Eave, error) {
	i := e.eaveIndex(eaveID)
	if i < 0 {
		return models.Eave{}, fmt.Errorf("toggle eave %s: %w", eaveID, ErrUnknownEave)
	}

	e.history.push(e.snapshot())
	e.eaves[i].IsVisible = !e.eaves[i].IsVisible
	return e.eaves[i], nil
}

func (e *Editor) DeleteEave(eaveID string) error {
	i := e.eaveIndex(eaveID)
	if i < 0 {
		return fmt.Errorf("delete eave %s: %w", eaveID, ErrUnknownEave)
	}

	e.history.push(e.snapshot())
	e.eaves = append(e.eaves[:i], e.eaves[i+1:]...)
	return nil
}

// Intersections are the miter points between visible, live eaves.
func (e *Editor) Intersections() []models.Point {
	return eaves.FindAllIntersections(eaves.Visible(e.eaves, e.walls.List()))
}

// refreshEaves rebuilds every eave polygon against the current walls. The
// outward side depends on the whole wall population.
func (e *Editor) refreshEaves() {
	all := e.walls.List()
	for i, ev := range e.eaves {
		e.eaves[i] = e.gen.UpdateDistance(ev, ev.Distance, all)
	}
}

func (e *Editor) eaveIndex(id string) int {
	for i, ev := range e.eaves {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

// ============================================================
// Summary
// ============================================================

// Summary counts distinct endpoints by exact position; endpoint snapping
// makes shared corners coincide exactly.
func (e *Editor) Summary() models.Summary {
	list := e.walls.List()
	return Summarize(list, e.eaves)
}

func Summarize(list []models.Wall, all []models.Eave) models.Summary {
	endpoints := make(map[models.Point]struct{}, len(list)*2)
	total := 0
	for _, w := range list {
		endpoints[w.Start] = struct{}{}
		endpoints[w.End] = struct{}{}
		total += walls.LengthMm(w)
	}

	live := eaves.Live(all, list)
	area := 0.0
	for _, ev := range live {
		area += eaves.AreaM2(ev)
	}

	return models.Summary{
		WallCount:     len(list),
		EndpointCount: len(endpoints),
		TotalLengthMm: total,
		EaveCount:     len(live),
		EaveAreaM2:    area,
	}
}

// DragLengthMm is the length label shown on the pending wall.
func (e *Editor) DragLengthMm() int {
	if e.mode != Dragging {
		return 0
	}
	return geometry.LengthMm(geometry.Distance(e.dragStart, e.current))
}
