package editor

import "scaff-planner/internal/planner/models"

const defaultHistoryLimit = 50

type snapshot struct {
	walls []models.Wall
	eaves []models.Eave
}

// history is a bounded undo stack; the oldest entry is dropped when full.
type history struct {
	entries []snapshot
	limit   int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &history{limit: limit}
}

func (h *history) push(s snapshot) {
	if len(h.entries) == h.limit {
		h.entries = append(h.entries[:0], h.entries[1:]...)
	}
	h.entries = append(h.entries, s)
}

func (h *history) pop() (snapshot, bool) {
	if len(h.entries) == 0 {
		return snapshot{}, false
	}
	s := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return s, true
}

func (h *history) len() int {
	return len(h.entries)
}

func (e *Editor) snapshot() snapshot {
	return snapshot{walls: e.walls.List(), eaves: e.Eaves()}
}

func (e *Editor) restore(s snapshot) {
	e.walls.Replace(s.walls)
	e.eaves = s.eaves
	e.mode = Idle
}

// Undo reverts the last wall or eave change. It reports false when there is
// nothing to undo.
func (e *Editor) Undo() bool {
	s, ok := e.history.pop()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

func (e *Editor) CanUndo() bool {
	return e.history.len() > 0
}

// Clear removes every wall and eave; it can be undone.
func (e *Editor) Clear() {
	e.history.push(e.snapshot())
	e.restore(snapshot{})
}
